package storage

import (
	"context"

	"github.com/poiesic/bookrag/core"
)

// CollectionInfo describes an existing collection.
type CollectionInfo struct {
	Name        string
	Dimension   int
	Distance    core.Distance
	PointsCount int
}

// Index is a vector index holding named collections of points.
// Implementations must be thread-safe and support concurrent access.
//
// Request failures are reported as *core.IndexError, which matches
// core.ErrIndexUnavailable.
type Index interface {
	// ListCollections returns the names of all collections.
	ListCollections(ctx context.Context) ([]string, error)

	// CreateCollection creates a collection with a fixed vector size and distance.
	CreateCollection(ctx context.Context, spec core.CollectionSpec) error

	// CollectionInfo returns the declared configuration of a collection.
	// A missing collection is reported as an IndexError with status 404.
	CollectionInfo(ctx context.Context, name string) (*CollectionInfo, error)

	// Upsert writes points, replacing any existing point with the same ID.
	Upsert(ctx context.Context, collection string, points []core.Point) error

	// Search returns up to limit points nearest to vector, ordered by
	// non-increasing score.
	Search(ctx context.Context, collection string, vector []float32, limit int, withPayload bool) ([]core.ScoredPoint, error)

	// Close releases resources held by the index.
	Close() error
}
