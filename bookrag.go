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


package bookrag

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/bookrag/ai"
	"github.com/poiesic/bookrag/ai/hashing"
	"github.com/poiesic/bookrag/ai/openai"
	"github.com/poiesic/bookrag/chunker"
	"github.com/poiesic/bookrag/config"
	"github.com/poiesic/bookrag/ingestion"
	"github.com/poiesic/bookrag/loader"
	"github.com/poiesic/bookrag/search"
	"github.com/poiesic/bookrag/server"
	"github.com/poiesic/bookrag/storage"
	"github.com/poiesic/bookrag/storage/badger"
	"github.com/poiesic/bookrag/storage/qdrant"
)

// Engine owns the vector index and embedder built from a configuration and
// hands out pipelines that share them.
type Engine struct {
	cfg      *config.Config
	index    storage.Index
	embedder *ai.PooledEmbedder
	// baseLogger is passed to the components the engine builds; each one
	// adds its own component attribute.
	baseLogger *slog.Logger
	logger     *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	index    storage.Index
	embedder ai.Embedder
	logger   *slog.Logger
}

// WithIndex uses idx instead of building one from the configuration.
// The engine takes ownership and closes it, also when Open fails.
func WithIndex(idx storage.Index) EngineOption {
	return func(o *engineOptions) {
		o.index = idx
	}
}

// WithEmbedder uses e instead of building one from the configuration.
func WithEmbedder(e ai.Embedder) EngineOption {
	return func(o *engineOptions) {
		o.embedder = e
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// Open validates cfg and builds the engine's index and embedder.
func Open(cfg *config.Config, opts ...EngineOption) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	options := &engineOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	closeIndex := func() {
		if options.index != nil {
			if err := options.index.Close(); err != nil {
				options.logger.Error("error closing index", "err", err)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		closeIndex()
		return nil, err
	}

	embedder := options.embedder
	if embedder == nil {
		var err error
		embedder, err = newEmbedder(cfg.Embedder)
		if err != nil {
			closeIndex()
			return nil, fmt.Errorf("creating embedder: %w", err)
		}
	}

	pooled, err := ai.NewPooledEmbedder(embedder, cfg.Server.EmbedWorkers)
	if err != nil {
		closeIndex()
		return nil, err
	}

	idx := options.index
	if idx == nil {
		idx, err = newIndex(cfg.Index)
		if err != nil {
			pooled.Close()
			return nil, fmt.Errorf("opening index: %w", err)
		}
	}

	logger := options.logger.With("component", "engine")
	logger.Info("engine ready",
		"index", cfg.Index.Type,
		"collection", cfg.Index.Collection,
		"embedder", embedder.Model(),
		"dimension", embedder.Dimension())

	return &Engine{
		cfg:        cfg,
		index:      idx,
		embedder:   pooled,
		baseLogger: options.logger,
		logger:     logger,
	}, nil
}

func newEmbedder(cfg config.EmbedderConfig) (ai.Embedder, error) {
	switch cfg.Type {
	case config.EmbedderOpenAI:
		return openai.NewEmbedder(cfg.AIConfig())
	case config.EmbedderHashing:
		return hashing.NewEmbedder(cfg.Dimension), nil
	default:
		return nil, fmt.Errorf("unknown embedder type %q", cfg.Type)
	}
}

func newIndex(cfg config.IndexConfig) (storage.Index, error) {
	switch cfg.Type {
	case config.IndexQdrant:
		return qdrant.New(qdrant.Config{
			URL:     cfg.Qdrant.URL,
			APIKey:  cfg.Qdrant.APIKey,
			Timeout: cfg.Qdrant.Timeout(),
		})
	case config.IndexBadger:
		if cfg.Badger.InMemory {
			return badger.NewMemoryIndex()
		}
		return badger.NewIndex(cfg.Badger.Path)
	default:
		return nil, fmt.Errorf("unknown index type %q", cfg.Type)
	}
}

// Close releases the embedder's worker pool and closes the index.
func (e *Engine) Close() error {
	var errs []error
	if err := e.embedder.Close(); err != nil {
		e.logger.Error("error closing embedder", "err", err)
		errs = append(errs, err)
	}
	if err := e.index.Close(); err != nil {
		e.logger.Error("error closing index", "err", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Config returns the configuration the engine was opened with.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Index returns the engine's vector index.
func (e *Engine) Index() storage.Index {
	return e.index
}

// Embedder returns the engine's pooled embedder.
func (e *Engine) Embedder() ai.Embedder {
	return e.embedder
}

// NewIngestionPipeline creates a pipeline configured from the engine's
// settings. opts are applied last and override them.
func (e *Engine) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	l, err := loader.New(
		loader.WithExtensions(e.cfg.Ingest.Extensions...),
		loader.WithLogger(e.baseLogger))
	if err != nil {
		return nil, err
	}
	c, err := chunker.New(
		chunker.WithMinTokens(e.cfg.Chunker.MinTokens),
		chunker.WithMaxTokens(e.cfg.Chunker.MaxTokens),
		chunker.WithEnforceMax(e.cfg.Chunker.EnforceMax),
		chunker.WithLogger(e.baseLogger))
	if err != nil {
		return nil, err
	}

	base := []ingestion.Option{
		ingestion.WithLogger(e.baseLogger),
		ingestion.WithCollection(e.cfg.Index.Collection),
		ingestion.WithLoader(l),
		ingestion.WithChunker(c),
		ingestion.WithIDGenerator(e.cfg.Ingest.IDGenerator()),
		ingestion.WithVerifyDimension(e.cfg.Ingest.VerifyDimension),
	}
	return ingestion.NewPipeline(e.index, e.embedder, append(base, opts...)...)
}

// NewSearcher creates a searcher over the engine's collection.
func (e *Engine) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	base := []search.Option{
		search.WithLogger(e.baseLogger),
		search.WithCollection(e.cfg.Index.Collection),
	}
	return search.NewSearcher(e.index, e.embedder, append(base, opts...)...)
}

// NewServer creates the HTTP API backed by a fresh pipeline and searcher.
func (e *Engine) NewServer(opts ...server.Option) (*server.Server, error) {
	pipeline, err := e.NewIngestionPipeline()
	if err != nil {
		return nil, err
	}
	searcher, err := e.NewSearcher()
	if err != nil {
		return nil, err
	}
	base := []server.Option{
		server.WithLogger(e.baseLogger),
		server.WithDocsDir(e.cfg.Ingest.DocsDir),
		server.WithCORSOrigins(e.cfg.Server.CORSOrigins...),
	}
	return server.New(pipeline, searcher, append(base, opts...)...)
}
