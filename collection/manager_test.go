package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/bookrag/core"
	"github.com/poiesic/bookrag/storage"
	"github.com/poiesic/bookrag/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingIndex records calls made through it.
type countingIndex struct {
	storage.Index
	creates int
	infos   int
	listErr error
}

func (c *countingIndex) ListCollections(ctx context.Context) ([]string, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.Index.ListCollections(ctx)
}

func (c *countingIndex) CreateCollection(ctx context.Context, spec core.CollectionSpec) error {
	c.creates++
	return c.Index.CreateCollection(ctx, spec)
}

func (c *countingIndex) CollectionInfo(ctx context.Context, name string) (*storage.CollectionInfo, error) {
	c.infos++
	return c.Index.CollectionInfo(ctx, name)
}

func newCountingIndex(t *testing.T) *countingIndex {
	t.Helper()
	idx, err := badger.NewMemoryIndex()
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return &countingIndex{Index: idx}
}

func spec(dim int) core.CollectionSpec {
	return core.CollectionSpec{Name: core.DefaultCollection, Dimension: dim, Distance: core.DistanceCosine}
}

func TestNewManager_RequiresIndex(t *testing.T) {
	_, err := NewManager(nil)
	assert.ErrorIs(t, err, ErrIndexRequired)
}

func TestEnsure_CreatesWhenAbsent(t *testing.T) {
	ctx := context.Background()
	idx := newCountingIndex(t)
	m, err := NewManager(idx)
	require.NoError(t, err)

	require.NoError(t, m.Ensure(ctx, spec(384)))
	assert.Equal(t, 1, idx.creates)

	info, err := idx.Index.CollectionInfo(ctx, core.DefaultCollection)
	require.NoError(t, err)
	assert.Equal(t, 384, info.Dimension)
	assert.Equal(t, core.DistanceCosine, info.Distance)
}

func TestEnsure_ExistingCollectionUntouched(t *testing.T) {
	ctx := context.Background()
	idx := newCountingIndex(t)
	m, err := NewManager(idx)
	require.NoError(t, err)

	require.NoError(t, m.Ensure(ctx, spec(384)))
	require.NoError(t, idx.Upsert(ctx, core.DefaultCollection, []core.Point{{
		ID:      "p1",
		Vector:  make384(),
		Payload: core.Payload{Page: "a.md", Text: "kept", TotalChunks: 1},
	}}))

	require.NoError(t, m.Ensure(ctx, spec(384)))
	assert.Equal(t, 1, idx.creates)
	assert.Equal(t, 1, idx.infos)

	info, err := idx.Index.CollectionInfo(ctx, core.DefaultCollection)
	require.NoError(t, err)
	assert.Equal(t, 1, info.PointsCount)
}

func TestEnsure_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx := newCountingIndex(t)
	require.NoError(t, idx.CreateCollection(ctx, spec(768)))

	t.Run("verification enabled", func(t *testing.T) {
		m, err := NewManager(idx)
		require.NoError(t, err)
		err = m.Ensure(ctx, spec(384))
		assert.ErrorIs(t, err, core.ErrDimensionMismatch)
		assert.Contains(t, err.Error(), "768")
	})

	t.Run("verification disabled", func(t *testing.T) {
		idx.infos = 0
		m, err := NewManager(idx, WithVerifyDimension(false))
		require.NoError(t, err)
		require.NoError(t, m.Ensure(ctx, spec(384)))
		assert.Equal(t, 0, idx.infos)
	})
}

func TestEnsure_InvalidSpec(t *testing.T) {
	idx := newCountingIndex(t)
	m, err := NewManager(idx)
	require.NoError(t, err)

	err = m.Ensure(context.Background(), core.CollectionSpec{Name: "", Dimension: 384, Distance: core.DistanceCosine})
	assert.Error(t, err)
	assert.Equal(t, 0, idx.creates)
}

func TestEnsure_ListFailurePropagates(t *testing.T) {
	idx := newCountingIndex(t)
	idx.listErr = &core.IndexError{Op: "list", Status: 503, Err: errors.New("unavailable")}
	m, err := NewManager(idx)
	require.NoError(t, err)

	err = m.Ensure(context.Background(), spec(384))
	assert.ErrorIs(t, err, core.ErrIndexUnavailable)
	var ie *core.IndexError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 503, ie.Status)
	assert.Equal(t, 0, idx.creates)
}

func make384() []float32 {
	v := make([]float32, 384)
	v[0] = 1
	return v
}
