package core

import (
	"strconv"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// IDGenerator produces the point ID for a chunk of a page.
type IDGenerator func(page string, index int) string

// RandomIDs returns a fresh random UUID for every call.
// Re-ingesting a corpus with it stores every chunk again under new IDs.
func RandomIDs(_ string, _ int) string {
	return uuid.NewString()
}

// DeterministicIDs derives the ID from the page and chunk index using
// BLAKE2b hashing, so re-ingesting an unchanged corpus overwrites points
// instead of duplicating them.
func DeterministicIDs(page string, index int) string {
	h, _ := blake2b.New(16, nil) // 16 bytes = 128 bits
	h.Write([]byte(page + "#" + strconv.Itoa(index)))
	var id uuid.UUID
	copy(id[:], h.Sum(nil))
	// Shape as a version 5 style, RFC 4122 variant UUID so remote indexes accept it
	id[6] = (id[6] & 0x0f) | 0x50
	id[8] = (id[8] & 0x3f) | 0x80
	return id.String()
}
