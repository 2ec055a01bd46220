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


// Package search answers questions against the ingested collection.
//
// The Searcher embeds the question with the same model used at ingestion,
// asks the vector index for the top-k nearest chunks and maps each hit to a
// core.QueryResult. Results keep the order the index returns, which is
// non-increasing similarity.
//
// # Errors
//
// Embedding failures are returned as they come from the embedder and match
// core.ErrEmbedding. Index failures are wrapped with core.ErrRetrieval and
// still match core.ErrIndexUnavailable, so the HTTP status of the index can
// be recovered with errors.As on *core.IndexError.
package search
