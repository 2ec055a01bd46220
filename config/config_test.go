package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/bookrag/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvQdrantURL, EnvQdrantAPIKey, EnvEmbeddingHost, EnvEmbeddingModel, EnvEmbeddingKey, EnvDocsDir} {
		t.Setenv(name, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, IndexQdrant, cfg.Index.Type)
	assert.Equal(t, core.DefaultCollection, cfg.Index.Collection)
	assert.Equal(t, "http://localhost:6333", cfg.Index.Qdrant.URL)
	assert.Equal(t, 384, cfg.Embedder.Dimension)
	assert.Equal(t, "all-minilm", cfg.Embedder.Model)
	assert.Equal(t, 300, cfg.Chunker.MinTokens)
	assert.Equal(t, 600, cfg.Chunker.MaxTokens)
	assert.False(t, cfg.Chunker.EnforceMax)
	assert.Equal(t, []string{".md"}, cfg.Ingest.Extensions)
	assert.True(t, cfg.Ingest.VerifyDimension)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
}

func TestLoad_NoFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bookrag.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
index:
  type: badger
  badger:
    path: /var/lib/bookrag
embedder:
  type: hashing
  dimension: 256
chunker:
  enforce_max: true
ingest:
  ids: deterministic
  verify_dimension: false
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, IndexBadger, cfg.Index.Type)
	assert.Equal(t, "/var/lib/bookrag", cfg.Index.Badger.Path)
	assert.Equal(t, core.DefaultCollection, cfg.Index.Collection, "unset fields keep defaults")
	assert.Equal(t, EmbedderHashing, cfg.Embedder.Type)
	assert.Equal(t, 256, cfg.Embedder.Dimension)
	assert.True(t, cfg.Chunker.EnforceMax)
	assert.Equal(t, 300, cfg.Chunker.MinTokens)
	assert.False(t, cfg.Ingest.VerifyDimension)
	assert.Equal(t, IDsDeterministic, cfg.Ingest.IDs)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("index: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvQdrantURL, "https://qdrant.example.com")
	t.Setenv(EnvQdrantAPIKey, "qkey")
	t.Setenv(EnvEmbeddingHost, "http://embed:8080")
	t.Setenv(EnvEmbeddingModel, "bge-small")
	t.Setenv(EnvEmbeddingKey, "ekey")
	t.Setenv(EnvDocsDir, "/docs")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://qdrant.example.com", cfg.Index.Qdrant.URL)
	assert.Equal(t, "qkey", cfg.Index.Qdrant.APIKey)
	assert.Equal(t, "http://embed:8080", cfg.Embedder.Host)
	assert.Equal(t, "bge-small", cfg.Embedder.Model)
	assert.Equal(t, "ekey", cfg.Embedder.APIKey)
	assert.Equal(t, "/docs", cfg.Ingest.DocsDir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown index", func(c *Config) { c.Index.Type = "pinecone" }, "index.type"},
		{"empty collection", func(c *Config) { c.Index.Collection = "" }, "index.collection"},
		{"bad qdrant url", func(c *Config) { c.Index.Qdrant.URL = "localhost:6333" }, "index.qdrant.url"},
		{"badger without path", func(c *Config) { c.Index.Type = IndexBadger; c.Index.Badger.Path = "" }, "index.badger.path"},
		{"unknown embedder", func(c *Config) { c.Embedder.Type = "bert" }, "embedder.type"},
		{"zero dimension", func(c *Config) { c.Embedder.Dimension = 0 }, "embedder.dimension"},
		{"max below min", func(c *Config) { c.Chunker.MaxTokens = 100 }, "chunker.max_tokens"},
		{"no extensions", func(c *Config) { c.Ingest.Extensions = nil }, "ingest.extensions"},
		{"unknown ids", func(c *Config) { c.Ingest.IDs = "sequential" }, "ingest.ids"},
		{"zero workers", func(c *Config) { c.Server.EmbedWorkers = 0 }, "server.embed_workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("badger in memory needs no path", func(t *testing.T) {
		cfg := Default()
		cfg.Index.Type = IndexBadger
		cfg.Index.Badger = BadgerConfig{InMemory: true}
		assert.NoError(t, cfg.Validate())
	})
}

func TestHelpers(t *testing.T) {
	cfg := Default()

	aiCfg := cfg.Embedder.AIConfig()
	assert.Equal(t, "http://localhost:11434/v1", aiCfg.EmbeddingHost)
	assert.Equal(t, 384, aiCfg.Dimension)
	assert.NoError(t, aiCfg.Validate())

	assert.Equal(t, int64(30), int64(cfg.Index.Qdrant.Timeout().Seconds()))

	first := cfg.Ingest.IDGenerator()("a.md", 0)
	second := cfg.Ingest.IDGenerator()("a.md", 0)
	assert.NotEqual(t, first, second, "random IDs differ")

	cfg.Ingest.IDs = IDsDeterministic
	assert.Equal(t, cfg.Ingest.IDGenerator()("a.md", 0), cfg.Ingest.IDGenerator()("a.md", 0))
}
