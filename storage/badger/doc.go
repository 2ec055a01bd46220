// Package badger provides an embedded storage.Index backed by BadgerDB.
//
// Collection metadata and points are encoded with mus-go. Search scans every
// point of the collection and ranks by cosine similarity, which is adequate
// for book-sized corpora of a few thousand chunks.
package badger
