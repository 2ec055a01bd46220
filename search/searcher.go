package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/bookrag/ai"
	"github.com/poiesic/bookrag/core"
	"github.com/poiesic/bookrag/storage"
)

// DefaultTopK is the number of results returned when a caller does not
// choose one.
const DefaultTopK = 5

// Searcher retrieves the chunks most similar to a question.
type Searcher struct {
	index      storage.Index
	embedder   ai.Embedder
	collection string
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithCollection sets the collection to search.
// Default is core.DefaultCollection.
func WithCollection(name string) Option {
	return func(s *Searcher) error {
		if name == "" {
			return fmt.Errorf("collection name cannot be empty")
		}
		s.collection = name
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(index storage.Index, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		index:      index,
		embedder:   embedder,
		collection: core.DefaultCollection,
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "searcher")

	return s, nil
}

// Query returns up to topK chunks ranked by similarity to question.
// topK is passed to the index as given; the index decides how to treat
// non-positive values.
func (s *Searcher) Query(ctx context.Context, question string, topK int) ([]core.QueryResult, error) {
	return s.QueryWithMonitor(ctx, question, topK, nil)
}

// QueryWithMonitor is Query with callbacks at each stage.
func (s *Searcher) QueryWithMonitor(ctx context.Context, question string, topK int, monitor QueryMonitor) ([]core.QueryResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(question, topK)

	vector, err := s.embedder.EmbedText(ctx, question)
	if err != nil {
		s.logger.Error("error generating embedding for question", "err", err)
		return nil, err
	}
	monitor.AfterEmbedding(vector)

	hits, err := s.index.Search(ctx, s.collection, vector, topK, true)
	if err != nil {
		s.logger.Error("error searching collection", "collection", s.collection, "topK", topK, "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrRetrieval, err)
	}
	monitor.AfterSearch(hits)

	results := make([]core.QueryResult, len(hits))
	for i, hit := range hits {
		results[i] = core.ResultFromPoint(hit)
	}
	s.logger.Debug("query answered", "topK", topK, "results", len(results))
	monitor.Finish(results)

	return results, nil
}
