package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/bookrag/ai"
	"github.com/poiesic/bookrag/chunker"
	"github.com/poiesic/bookrag/collection"
	"github.com/poiesic/bookrag/core"
	"github.com/poiesic/bookrag/loader"
	"github.com/poiesic/bookrag/storage"
)

// Pipeline loads a directory of documents, chunks and embeds them, and
// upserts one point per chunk into the vector index.
type Pipeline struct {
	index           storage.Index
	embedder        ai.Embedder
	loader          *loader.Loader
	chunker         *chunker.Chunker
	ids             core.IDGenerator
	collection      string
	verifyDimension bool
	monitor         Monitor
	baseLogger      *slog.Logger // untagged, handed to collaborators
	logger          *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithCollection sets the target collection.
// Default is core.DefaultCollection.
func WithCollection(name string) Option {
	return func(p *Pipeline) error {
		if name == "" {
			return fmt.Errorf("collection name cannot be empty")
		}
		p.collection = name
		return nil
	}
}

// WithChunker replaces the default chunker.
func WithChunker(c *chunker.Chunker) Option {
	return func(p *Pipeline) error {
		if c == nil {
			return fmt.Errorf("chunker cannot be nil")
		}
		p.chunker = c
		return nil
	}
}

// WithLoader replaces the default document loader.
func WithLoader(l *loader.Loader) Option {
	return func(p *Pipeline) error {
		if l == nil {
			return fmt.Errorf("loader cannot be nil")
		}
		p.loader = l
		return nil
	}
}

// WithIDGenerator sets how point IDs are derived.
// Default is core.RandomIDs, so every run adds new points. Use
// core.DeterministicIDs to make re-ingesting unchanged content overwrite
// the points of the previous run instead.
func WithIDGenerator(gen core.IDGenerator) Option {
	return func(p *Pipeline) error {
		if gen == nil {
			return fmt.Errorf("ID generator cannot be nil")
		}
		p.ids = gen
		return nil
	}
}

// WithMonitor installs hooks that observe each run.
func WithMonitor(m Monitor) Option {
	return func(p *Pipeline) error {
		if m == nil {
			m = &noopMonitor{}
		}
		p.monitor = m
		return nil
	}
}

// WithVerifyDimension controls whether an existing collection is checked
// against the embedder's dimension before ingesting.
// Default is true.
func WithVerifyDimension(verify bool) Option {
	return func(p *Pipeline) error {
		p.verifyDimension = verify
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(index storage.Index, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	p := &Pipeline{
		index:           index,
		embedder:        embedder,
		ids:             core.RandomIDs,
		collection:      core.DefaultCollection,
		verifyDimension: true,
		monitor:         &noopMonitor{},
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	// Defaults built after options so they share the final logger
	if p.loader == nil {
		l, err := loader.New(loader.WithLogger(p.logger))
		if err != nil {
			return nil, err
		}
		p.loader = l
	}
	if p.chunker == nil {
		c, err := chunker.New(chunker.WithLogger(p.logger))
		if err != nil {
			return nil, err
		}
		p.chunker = c
	}

	p.baseLogger = p.logger
	p.logger = p.logger.With("component", "ingestion")
	return p, nil
}

// Collection returns the name of the target collection.
func (p *Pipeline) Collection() string {
	return p.collection
}

// Ingest runs the pipeline over every document under root.
//
// The collection is created first if needed. Documents are processed in
// load order and each is upserted in one write. The first error aborts the
// run: documents already written stay in the index and no summary is
// returned. A missing root fails with core.ErrNotFound.
func (p *Pipeline) Ingest(ctx context.Context, root string) (*core.IngestSummary, error) {
	manager, err := collection.NewManager(p.index,
		collection.WithVerifyDimension(p.verifyDimension),
		collection.WithLogger(p.baseLogger))
	if err != nil {
		return nil, err
	}

	spec := core.CollectionSpec{
		Name:      p.collection,
		Dimension: p.embedder.Dimension(),
		Distance:  core.DistanceCosine,
	}
	if err := manager.Ensure(ctx, spec); err != nil {
		p.logger.Error("error ensuring collection", "collection", p.collection, "err", err)
		return nil, err
	}

	documents, err := p.loader.Load(ctx, root)
	if err != nil {
		p.logger.Error("error loading documents", "root", root, "err", err)
		return nil, err
	}
	p.logger.Info("loaded documents", "root", root, "documents", len(documents))
	p.monitor.Start(len(documents))

	proc := &documentProcessor{
		index:      p.index,
		collection: p.collection,
		chunker:    p.chunker,
		embedder:   p.embedder,
		ids:        p.ids,
		logger:     p.logger,
	}

	summary := &core.IngestSummary{
		Status:     core.StatusSuccess,
		Collection: p.collection,
	}
	for i := range documents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc := &documents[i]
		stored, err := proc.process(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("ingesting %s: %w", doc.Page, err)
		}
		summary.DocumentsProcessed++
		summary.VectorsStored += stored
		p.monitor.DocumentIngested(doc.Page, stored)
	}

	p.logger.Info("ingestion complete",
		"collection", summary.Collection,
		"documents", summary.DocumentsProcessed,
		"vectors", summary.VectorsStored)
	p.monitor.Finish(summary)
	return summary, nil
}
