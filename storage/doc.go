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


// Package storage provides the vector index abstraction for bookrag.
//
// The Index interface decouples the pipelines from the index implementation.
// Two backends are provided:
//
//   - storage/qdrant: a REST client for a remote Qdrant server
//   - storage/badger: an embedded BadgerDB store with brute-force cosine search
//
// # Constructor Return Type Pattern
//
// Public constructors return the storage.Index interface so callers cannot
// couple themselves to backend specifics:
//
//	idx, err := qdrant.New(qdrant.Config{URL: "http://localhost:6333"})  // returns storage.Index
//
// # Usage
//
//	idx, err := badger.NewIndex("/path/to/index")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer idx.Close()
//
// Use in tests with in-memory storage:
//
//	idx, err := badger.NewMemoryIndex()
//
// # Errors
//
// Failed requests are reported as *core.IndexError carrying an HTTP-style
// status (404 for a missing collection, 400 for a rejected request, 0 for a
// transport failure). Responses that cannot be decoded wrap
// core.ErrMalformedResponse.
//
// # Context Support
//
// All index methods accept context.Context for cancellation
// and timeout support.
package storage
