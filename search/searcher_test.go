package search

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/poiesic/bookrag/ai/mock"
	"github.com/poiesic/bookrag/core"
	"github.com/poiesic/bookrag/storage"
	"github.com/poiesic/bookrag/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubIndex returns canned search results.
type stubIndex struct {
	storage.Index
	hits       []core.ScoredPoint
	err        error
	collection string
	limit      int
}

func (s *stubIndex) Search(_ context.Context, collection string, _ []float32, limit int, _ bool) ([]core.ScoredPoint, error) {
	s.collection = collection
	s.limit = limit
	return s.hits, s.err
}

// recordingMonitor captures the stages a query passed through.
type recordingMonitor struct {
	stages []string
}

func (m *recordingMonitor) Start(_ string, _ int)            { m.stages = append(m.stages, "start") }
func (m *recordingMonitor) AfterEmbedding(_ []float32)       { m.stages = append(m.stages, "embed") }
func (m *recordingMonitor) AfterSearch(_ []core.ScoredPoint) { m.stages = append(m.stages, "search") }
func (m *recordingMonitor) Finish(_ []core.QueryResult)      { m.stages = append(m.stages, "finish") }

func seededIndex(t *testing.T, texts map[string]string) *badger.Index {
	t.Helper()
	ctx := context.Background()
	idx, err := badger.NewMemoryIndex()
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	require.NoError(t, idx.CreateCollection(ctx, core.CollectionSpec{
		Name: core.DefaultCollection, Dimension: 384, Distance: core.DistanceCosine,
	}))

	embedder := mock.NewMockEmbedder()
	var points []core.Point
	for page, text := range texts {
		vec, err := embedder.EmbedText(ctx, text)
		require.NoError(t, err)
		id := core.DeterministicIDs(page, 0)
		points = append(points, core.Point{
			ID:     id,
			Vector: vec,
			Payload: core.Payload{
				Page: page, Heading: "Heading of " + page, Text: text,
				ChunkID: id, ChunkIndex: 0, TotalChunks: 1,
			},
		})
	}
	require.NoError(t, idx.Upsert(ctx, core.DefaultCollection, points))
	return idx
}

func TestNewSearcher_Validation(t *testing.T) {
	_, err := NewSearcher(nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrIndexRequired)

	_, err = NewSearcher(&stubIndex{}, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewSearcher(&stubIndex{}, mock.NewMockEmbedder(), WithCollection(""))
	assert.Error(t, err)
}

func TestQuery_ExactMatchRanksFirst(t *testing.T) {
	idx := seededIndex(t, map[string]string{
		"kinematics.md": "forward kinematics maps joint angles to poses",
		"sensors.md":    "lidar and depth cameras measure distance",
		"control.md":    "pid controllers regulate motor speed",
	})
	s, err := NewSearcher(idx, mock.NewMockEmbedder())
	require.NoError(t, err)

	results, err := s.Query(context.Background(), "lidar and depth cameras measure distance", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "sensors.md", results[0].Page)
	assert.Equal(t, "Heading of sensors.md", results[0].Heading)
	assert.Equal(t, "lidar and depth cameras measure distance", results[0].Text)
	assert.InDelta(t, 1.0, results[0].Score, 1e-5)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestQuery_TopKLargerThanCollection(t *testing.T) {
	idx := seededIndex(t, map[string]string{"a.md": "alpha", "b.md": "beta"})
	s, err := NewSearcher(idx, mock.NewMockEmbedder())
	require.NoError(t, err)

	results, err := s.Query(context.Background(), "gamma", DefaultTopK)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestQuery_PreservesIndexOrderAndDefaults(t *testing.T) {
	index := &stubIndex{hits: []core.ScoredPoint{
		{ID: "2", Score: 0.4, Payload: core.Payload{Page: "b.md", Text: "second"}},
		{ID: "1", Score: 0.9, Payload: core.Payload{Page: "a.md", Heading: "A", Text: "first"}},
		{ID: "3", Score: 0.1},
	}}
	s, err := NewSearcher(index, mock.NewMockEmbedder(), WithCollection("book"))
	require.NoError(t, err)

	results, err := s.Query(context.Background(), "question", 3)
	require.NoError(t, err)
	assert.Equal(t, "book", index.collection)
	assert.Equal(t, 3, index.limit)
	assert.Equal(t, []core.QueryResult{
		{Page: "b.md", Heading: "", Score: 0.4, Text: "second"},
		{Page: "a.md", Heading: "A", Score: 0.9, Text: "first"},
		{Page: "", Heading: "", Score: 0.1, Text: ""},
	}, results)
}

func TestQuery_EmptyCollection(t *testing.T) {
	s, err := NewSearcher(&stubIndex{}, mock.NewMockEmbedder())
	require.NoError(t, err)

	results, err := s.Query(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestQuery_Errors(t *testing.T) {
	t.Run("embedding failure propagates", func(t *testing.T) {
		index := &stubIndex{}
		s, err := NewSearcher(index, mock.NewMockEmbedder())
		require.NoError(t, err)

		_, err = s.Query(context.Background(), "", 5)
		assert.ErrorIs(t, err, core.ErrEmbedding)
		assert.NotErrorIs(t, err, core.ErrRetrieval)
		assert.Empty(t, index.collection, "index should not be called")
	})

	t.Run("index failure keeps status", func(t *testing.T) {
		index := &stubIndex{err: &core.IndexError{
			Op: "search", Collection: core.DefaultCollection,
			Status: http.StatusNotFound, Err: errors.New("collection missing"),
		}}
		s, err := NewSearcher(index, mock.NewMockEmbedder())
		require.NoError(t, err)

		_, err = s.Query(context.Background(), "question", 5)
		assert.ErrorIs(t, err, core.ErrRetrieval)
		assert.ErrorIs(t, err, core.ErrIndexUnavailable)
		var ie *core.IndexError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, http.StatusNotFound, ie.Status)
	})

	t.Run("malformed response is a retrieval error", func(t *testing.T) {
		index := &stubIndex{err: core.ErrMalformedResponse}
		s, err := NewSearcher(index, mock.NewMockEmbedder())
		require.NoError(t, err)

		_, err = s.Query(context.Background(), "question", 5)
		assert.ErrorIs(t, err, core.ErrRetrieval)
		assert.ErrorIs(t, err, core.ErrMalformedResponse)
	})

	t.Run("non-positive topK delegated to index", func(t *testing.T) {
		idx := seededIndex(t, map[string]string{"a.md": "alpha"})
		s, err := NewSearcher(idx, mock.NewMockEmbedder())
		require.NoError(t, err)

		_, err = s.Query(context.Background(), "alpha", 0)
		assert.ErrorIs(t, err, core.ErrRetrieval)
		var ie *core.IndexError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, http.StatusBadRequest, ie.Status)
	})
}

func TestQueryWithMonitor(t *testing.T) {
	s, err := NewSearcher(&stubIndex{hits: []core.ScoredPoint{{ID: "x", Score: 1}}}, mock.NewMockEmbedder())
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	_, err = s.QueryWithMonitor(context.Background(), "question", 1, monitor)
	require.NoError(t, err)
	assert.Equal(t, []string{"start", "embed", "search", "finish"}, monitor.stages)
}
