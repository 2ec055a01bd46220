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


// Package ai provides the embedding abstraction used by bookrag.
//
// Both the ingestion and query pipelines receive an Embedder through their
// constructors; nothing in the module reaches for a process-wide model. The
// same instance must be used for a collection's whole lifetime because every
// vector stored in or queried against a collection must come from one model.
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible HTTP embedding APIs through langchaingo
//   - ai/hashing: offline feature-hashing embedder, no network required
//   - ai/mock: deterministic test double
//
// Public constructors return the ai.Embedder interface. The mock constructor
// returns its concrete type so tests can inject behavior and read call counts.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithEmbeddingModel("all-minilm"))
//	embedder, err := openai.NewEmbedder(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Offload to a bounded pool when serving requests
//	pooled, err := ai.NewPooledEmbedder(embedder, 4)
//	defer pooled.Close()
//
//	vector, err := pooled.EmbedText(ctx, "What is a humanoid robot?")
//
// Embedding failures of any kind wrap core.ErrEmbedding, and batch calls
// never return a partial result.
package ai
