// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"errors"
	"fmt"
)

// Error kinds shared by every stage of ingestion and retrieval.
var (
	// ErrNotFound indicates the corpus root does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmbedding indicates the embedding model failed or returned malformed output.
	ErrEmbedding = errors.New("embedding failed")

	// ErrIndexUnavailable indicates the vector index rejected a request or could not be reached.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrRetrieval wraps index failures raised while answering a query.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrMalformedResponse indicates the vector index returned a response
	// that does not match its expected schema.
	ErrMalformedResponse = errors.New("malformed index response")

	// ErrDimensionMismatch indicates an existing collection was created with a
	// different vector size or distance than the embedder produces.
	ErrDimensionMismatch = errors.New("collection dimension mismatch")

	// ErrInvalidPoint indicates a point failed validation before upsert.
	ErrInvalidPoint = errors.New("invalid point")

	// ErrEmptyText indicates an empty string was given where text is required.
	ErrEmptyText = errors.New("text cannot be empty")
)

// IndexError describes a failed vector index request.
// It matches ErrIndexUnavailable with errors.Is.
type IndexError struct {
	Op         string // Operation name, e.g. "upsert"
	Collection string
	Status     int // HTTP status code, 0 for transport failures
	Err        error
}

func (e *IndexError) Error() string {
	msg := fmt.Sprintf("index %s", e.Op)
	if e.Collection != "" {
		msg += fmt.Sprintf(" %q", e.Collection)
	}
	if e.Status != 0 {
		msg += fmt.Sprintf(": status %d", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrIndexUnavailable.
func (e *IndexError) Is(target error) bool {
	return target == ErrIndexUnavailable
}
