// Package ingestion builds the vector index from a directory of documents.
//
// A Pipeline runs the stages in order:
//   - Ensure the target collection exists with the embedder's dimension
//   - Load every document under the root directory
//   - Chunk each document, embed its chunks in one batch and upsert them
//
// Processing is sequential and fails fast. Documents upserted before a
// failure remain in the index.
//
// # Point IDs
//
// Point IDs are random by default, so ingesting the same corpus twice
// doubles the stored points. WithIDGenerator(core.DeterministicIDs) derives
// IDs from page and chunk position instead, which makes a re-run overwrite
// the previous points as long as chunk boundaries are unchanged.
//
// # Monitoring
//
// A Monitor observes each run. ProgressMonitor prints a progress line and
// is what the command line tool uses.
package ingestion
