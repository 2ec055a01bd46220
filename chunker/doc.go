// Package chunker splits document text into passages for embedding.
//
// Text is split on blank lines and whole paragraphs are accumulated until the
// buffer holds at least the minimum word count, then emitted. Whatever is left
// at the end is emitted regardless of size. Paragraphs are never split, so the
// maximum size is advisory unless WithEnforceMax is set, in which case
// oversized chunks are re-split with a recursive character splitter measuring
// length in words.
package chunker
