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


package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/poiesic/bookrag/ai"
	"github.com/poiesic/bookrag/core"
	"gopkg.in/yaml.v3"
)

// Index backends
const (
	IndexQdrant = "qdrant"
	IndexBadger = "badger"
)

// Embedder implementations
const (
	EmbedderOpenAI  = "openai"
	EmbedderHashing = "hashing"
)

// Point ID strategies
const (
	IDsRandom        = "random"
	IDsDeterministic = "deterministic"
)

// Environment variables applied over the file configuration.
const (
	EnvQdrantURL      = "QDRANT_URL"
	EnvQdrantAPIKey   = "QDRANT_API_KEY"
	EnvEmbeddingHost  = "EMBEDDING_HOST"
	EnvEmbeddingModel = "EMBEDDING_MODEL"
	EnvEmbeddingKey   = "EMBEDDING_API_KEY"
	EnvDocsDir        = "BOOKRAG_DOCS_DIR"
)

// QdrantConfig contains connection details for a Qdrant server.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// Timeout returns the request timeout as a duration.
func (q QdrantConfig) Timeout() time.Duration {
	return time.Duration(q.TimeoutSecs) * time.Second
}

// BadgerConfig configures the embedded index.
type BadgerConfig struct {
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"`
}

// IndexConfig selects and configures the vector index.
type IndexConfig struct {
	Type       string       `yaml:"type"`
	Collection string       `yaml:"collection"`
	Qdrant     QdrantConfig `yaml:"qdrant"`
	Badger     BadgerConfig `yaml:"badger"`
}

// EmbedderConfig selects and configures the embedding model.
type EmbedderConfig struct {
	Type      string `yaml:"type"`
	Host      string `yaml:"host"`
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key"`
	Dimension int    `yaml:"dimension"`
}

// AIConfig converts to the settings used by ai/openai.
func (e EmbedderConfig) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(e.Host),
		ai.WithEmbeddingModel(e.Model),
		ai.WithDimension(e.Dimension),
		ai.WithAPIKey(e.APIKey),
	)
}

// ChunkerConfig configures paragraph packing.
type ChunkerConfig struct {
	MinTokens  int  `yaml:"min_tokens"`
	MaxTokens  int  `yaml:"max_tokens"`
	EnforceMax bool `yaml:"enforce_max"`
}

// IngestConfig configures the ingestion pipeline.
type IngestConfig struct {
	DocsDir         string   `yaml:"docs_dir"`
	Extensions      []string `yaml:"extensions"`
	IDs             string   `yaml:"ids"`
	VerifyDimension bool     `yaml:"verify_dimension"`
}

// IDGenerator returns the generator named by IDs.
func (i IngestConfig) IDGenerator() core.IDGenerator {
	if i.IDs == IDsDeterministic {
		return core.DeterministicIDs
	}
	return core.RandomIDs
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	EmbedWorkers int      `yaml:"embed_workers"`
	CORSOrigins  []string `yaml:"cors_origins"`
}

// Config is the root application configuration.
type Config struct {
	Index    IndexConfig    `yaml:"index"`
	Embedder EmbedderConfig `yaml:"embedder"`
	Chunker  ChunkerConfig  `yaml:"chunker"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Server   ServerConfig   `yaml:"server"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Index: IndexConfig{
			Type:       IndexQdrant,
			Collection: core.DefaultCollection,
			Qdrant: QdrantConfig{
				URL:         "http://localhost:6333",
				TimeoutSecs: 30,
			},
			Badger: BadgerConfig{Path: "./bookrag_index"},
		},
		Embedder: EmbedderConfig{
			Type:      EmbedderOpenAI,
			Host:      "http://localhost:11434/v1",
			Model:     ai.DefaultModel,
			Dimension: ai.DefaultDimension,
		},
		Chunker: ChunkerConfig{
			MinTokens: 300,
			MaxTokens: 600,
		},
		Ingest: IngestConfig{
			DocsDir:         "../docusaurus/docs",
			Extensions:      []string{".md"},
			IDs:             IDsRandom,
			VerifyDimension: true,
		},
		Server: ServerConfig{
			Addr:         ":8000",
			EmbedWorkers: 4,
			CORSOrigins:  []string{"http://localhost:3000"},
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies the
// environment. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, cfg.Validate()
}

// ApplyEnv overrides settings from environment variables that are set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	set(EnvQdrantURL, &c.Index.Qdrant.URL)
	set(EnvQdrantAPIKey, &c.Index.Qdrant.APIKey)
	set(EnvEmbeddingHost, &c.Embedder.Host)
	set(EnvEmbeddingModel, &c.Embedder.Model)
	set(EnvEmbeddingKey, &c.Embedder.APIKey)
	set(EnvDocsDir, &c.Ingest.DocsDir)
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(slices.Contains([]string{IndexQdrant, IndexBadger}, c.Index.Type),
		"index.type must be %q or %q, got %q", IndexQdrant, IndexBadger, c.Index.Type)
	check(c.Index.Collection != "", "index.collection is required")
	if c.Index.Type == IndexQdrant {
		check(strings.HasPrefix(c.Index.Qdrant.URL, "http://") || strings.HasPrefix(c.Index.Qdrant.URL, "https://"),
			"index.qdrant.url must be an http(s) URL, got %q", c.Index.Qdrant.URL)
		check(c.Index.Qdrant.TimeoutSecs > 0, "index.qdrant.timeout_secs must be positive")
	}
	if c.Index.Type == IndexBadger {
		check(c.Index.Badger.InMemory || c.Index.Badger.Path != "", "index.badger.path is required")
	}

	check(slices.Contains([]string{EmbedderOpenAI, EmbedderHashing}, c.Embedder.Type),
		"embedder.type must be %q or %q, got %q", EmbedderOpenAI, EmbedderHashing, c.Embedder.Type)
	check(c.Embedder.Dimension > 0, "embedder.dimension must be positive")
	if c.Embedder.Type == EmbedderOpenAI {
		check(c.Embedder.Host != "", "embedder.host is required")
		check(c.Embedder.Model != "", "embedder.model is required")
	}

	check(c.Chunker.MinTokens > 0, "chunker.min_tokens must be positive")
	check(c.Chunker.MaxTokens >= c.Chunker.MinTokens, "chunker.max_tokens must be at least min_tokens")

	check(c.Ingest.DocsDir != "", "ingest.docs_dir is required")
	check(len(c.Ingest.Extensions) > 0, "ingest.extensions must not be empty")
	check(c.Ingest.IDs == IDsRandom || c.Ingest.IDs == IDsDeterministic,
		"ingest.ids must be %q or %q, got %q", IDsRandom, IDsDeterministic, c.Ingest.IDs)

	check(c.Server.Addr != "", "server.addr is required")
	check(c.Server.EmbedWorkers > 0, "server.embed_workers must be positive")

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
