// Package collection ensures the target collection of the vector index exists
// with the vector size and distance the embedder produces.
//
// # Verification
//
// By default an existing collection is inspected and Ensure fails with
// core.ErrDimensionMismatch when its vector size or distance differs from the
// requested spec. Passing WithVerifyDimension(false) skips the check, in which
// case a mismatch surfaces as an index error on the first upsert.
package collection
