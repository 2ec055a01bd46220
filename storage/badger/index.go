package badger

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/bookrag/core"
	"github.com/poiesic/bookrag/storage"
)

// Index implements storage.Index on top of a Backend.
// Collections and points live in one keyspace; search is a brute-force
// cosine scan over the collection's points.
type Index struct {
	backend *Backend
}

var _ storage.Index = (*Index)(nil)

// NewIndex opens (or creates) an on-disk index at path.
func NewIndex(path string) (storage.Index, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return &Index{backend: backend}, nil
}

func indexError(op, collection string, status int, err error) error {
	return &core.IndexError{Op: op, Collection: collection, Status: status, Err: err}
}

// wrapBackendError reports an internal failure as an IndexError so callers
// can treat both backends the same way.
func wrapBackendError(op, collection string, err error) error {
	if err == nil {
		return nil
	}
	var ie *core.IndexError
	if errors.As(err, &ie) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return indexError(op, collection, http.StatusInternalServerError, err)
}

// ListCollections returns collection names in lexical order.
func (ix *Index) ListCollections(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var names []string
	err := ix.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(collectionPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := string(iter.Item().Key())
			names = append(names, strings.TrimPrefix(key, collectionPrefix))
		}
		return nil
	}, false)
	if err != nil {
		return nil, wrapBackendError("list", "", err)
	}
	return names, nil
}

// CreateCollection stores the collection's metadata.
// Creating a collection that already exists fails with status 409.
func (ix *Index) CreateCollection(ctx context.Context, spec core.CollectionSpec) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := core.ValidateCollectionSpec(spec); err != nil {
		return indexError("create", spec.Name, http.StatusBadRequest, err)
	}
	if strings.Contains(spec.Name, keySeparator) {
		return indexError("create", spec.Name, http.StatusBadRequest, errors.New("collection name contains a NUL byte"))
	}

	err := ix.backend.WithTx(func(tx *badger.Txn) error {
		key := makeCollectionKey(spec.Name)
		if _, err := tx.Get(key); err == nil {
			return indexError("create", spec.Name, http.StatusConflict, storage.ErrCollectionExists)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := tx.Set(key, storage.MarshalCollectionSpec(spec)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return wrapBackendError("create", spec.Name, err)
	}

	ix.backend.logger.Info("created collection", "collection", spec.Name, "dimension", spec.Dimension)
	return nil
}

// readSpec loads a collection's metadata inside tx.
func readSpec(tx *badger.Txn, op, name string) (core.CollectionSpec, error) {
	var spec core.CollectionSpec
	item, err := tx.Get(makeCollectionKey(name))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return spec, indexError(op, name, http.StatusNotFound, storage.ErrCollectionNotFound)
	}
	if err != nil {
		return spec, err
	}
	err = item.Value(func(val []byte) error {
		spec, err = storage.UnmarshalCollectionSpec(val)
		return err
	})
	return spec, err
}

// CollectionInfo returns a collection's metadata and point count.
func (ix *Index) CollectionInfo(ctx context.Context, name string) (*storage.CollectionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var info *storage.CollectionInfo
	err := ix.backend.WithTx(func(tx *badger.Txn) error {
		spec, err := readSpec(tx, "info", name)
		if err != nil {
			return err
		}
		count, err := countPoints(tx, name)
		if err != nil {
			return err
		}
		info = &storage.CollectionInfo{
			Name:        spec.Name,
			Dimension:   spec.Dimension,
			Distance:    spec.Distance,
			PointsCount: count,
		}
		return nil
	}, false)
	if err != nil {
		return nil, wrapBackendError("info", name, err)
	}
	return info, nil
}

func countPoints(tx *badger.Txn, collection string) (int, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makePointPrefix(collection)
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	count := 0
	for iter.Rewind(); iter.Valid(); iter.Next() {
		count++
	}
	return count, nil
}

// Count returns the number of points stored in a collection.
func (ix *Index) Count(ctx context.Context, collection string) (int, error) {
	info, err := ix.CollectionInfo(ctx, collection)
	if err != nil {
		return 0, err
	}
	return info.PointsCount, nil
}

// Upsert writes all points in a single transaction.
// Points are validated against the collection's dimension first; one
// invalid point rejects the whole batch with status 400.
func (ix *Index) Upsert(ctx context.Context, collection string, points []core.Point) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := ix.backend.WithTx(func(tx *badger.Txn) error {
		spec, err := readSpec(tx, "upsert", collection)
		if err != nil {
			return err
		}
		for i := range points {
			if err := core.ValidatePoint(&points[i], spec.Dimension); err != nil {
				return indexError("upsert", collection, http.StatusBadRequest, err)
			}
		}
		for i := range points {
			key := makePointKey(collection, points[i].ID)
			if err := tx.Set(key, storage.MarshalPoint(&points[i])); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return wrapBackendError("upsert", collection, err)
	}

	ix.backend.logger.Debug("upserted points", "collection", collection, "count", len(points))
	return nil
}

// Search returns the limit points most similar to vector.
// A non-positive limit fails with status 400.
func (ix *Index) Search(ctx context.Context, collection string, vector []float32, limit int, withPayload bool) ([]core.ScoredPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, indexError("search", collection, http.StatusBadRequest,
			fmt.Errorf("%w: limit must be positive, got %d", storage.ErrInvalidQuery, limit))
	}

	err := ix.backend.WithTx(func(tx *badger.Txn) error {
		spec, err := readSpec(tx, "search", collection)
		if err != nil {
			return err
		}
		if len(vector) != spec.Dimension {
			return indexError("search", collection, http.StatusBadRequest,
				fmt.Errorf("%w: vector has %d dimensions, collection expects %d",
					storage.ErrInvalidQuery, len(vector), spec.Dimension))
		}
		return nil
	}, false)
	if err != nil {
		return nil, wrapBackendError("search", collection, err)
	}

	results, err := ix.backend.findSimilar(collection, vector, limit, withPayload)
	if err != nil {
		return nil, wrapBackendError("search", collection, err)
	}
	return results, nil
}

// Close closes the underlying backend.
func (ix *Index) Close() error {
	return ix.backend.Close()
}
