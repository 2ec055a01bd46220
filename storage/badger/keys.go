package badger

// Key prefixes for different data types
const (
	collectionPrefix = "coll:"
	pointPrefix      = "pnt:"
	keySeparator     = "\x00"
)

// makeCollectionKey generates the key holding a collection's metadata.
func makeCollectionKey(name string) []byte {
	return []byte(collectionPrefix + name)
}

// makePointPrefix generates the prefix shared by every point of a collection.
// Format: prefix:collection\x00
func makePointPrefix(collection string) []byte {
	return []byte(pointPrefix + collection + keySeparator)
}

// makePointKey generates a key for a point by collection and ID.
// Format: prefix:collection\x00id
func makePointKey(collection, id string) []byte {
	prefix := makePointPrefix(collection)
	buf := make([]byte, len(prefix)+len(id))
	offset := copy(buf, prefix)
	copy(buf[offset:], id)
	return buf
}
