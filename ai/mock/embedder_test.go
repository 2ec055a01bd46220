package mock

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/poiesic/bookrag/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	ctx := context.Background()
	m := NewMockEmbedder()

	a, err := m.EmbedText(ctx, "humanoid robot")
	require.NoError(t, err)
	b, err := m.EmbedText(ctx, "humanoid robot")
	require.NoError(t, err)
	c, err := m.EmbedText(ctx, "servo motor")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 384)

	var sum float64
	for _, x := range a {
		sum += float64(x * x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
}

func TestMockEmbedder_Batch(t *testing.T) {
	ctx := context.Background()
	m := &MockEmbedder{Dim: 8}

	vecs, err := m.EmbedTexts(ctx, []string{"one", "two", "three"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	for _, v := range vecs {
		assert.Len(t, v, 8)
	}

	single, err := m.EmbedText(ctx, "two")
	require.NoError(t, err)
	assert.Equal(t, single, vecs[1])
	assert.Equal(t, 2, m.CallCount())
}

func TestMockEmbedder_RejectsEmpty(t *testing.T) {
	ctx := context.Background()
	m := NewMockEmbedder()

	_, err := m.EmbedText(ctx, "")
	assert.ErrorIs(t, err, core.ErrEmbedding)

	_, err = m.EmbedTexts(ctx, nil)
	assert.ErrorIs(t, err, core.ErrEmbedding)

	_, err = m.EmbedTexts(ctx, []string{"ok", ""})
	assert.ErrorIs(t, err, core.ErrEmbedding)
}

func TestMockEmbedder_InjectedFuncs(t *testing.T) {
	ctx := context.Background()
	m := NewMockEmbedder()
	boom := errors.New("boom")
	m.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, boom
	}

	_, err := m.EmbedTexts(ctx, []string{"x"})
	assert.ErrorIs(t, err, boom)

	m.Reset()
	assert.Equal(t, 0, m.CallCount())
	_, err = m.EmbedTexts(ctx, []string{"x"})
	assert.NoError(t, err)
}

func TestMockEmbedder_ConcurrentCallCount(t *testing.T) {
	ctx := context.Background()
	m := NewMockEmbedder()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.EmbedText(ctx, "concurrent")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, m.CallCount())
}
