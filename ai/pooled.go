package ai

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/panjf2000/ants/v2"
)

// PooledEmbedder runs every call of the wrapped Embedder on a bounded
// worker pool so CPU-bound embedding cannot starve request handlers.
type PooledEmbedder struct {
	inner  Embedder
	pool   *ants.Pool
	logger *slog.Logger
}

var _ Embedder = (*PooledEmbedder)(nil)

// NewPooledEmbedder wraps inner with a pool of size workers.
// Size defaults to runtime.NumCPU() / 2, with a minimum of 1.
func NewPooledEmbedder(inner Embedder, size int) (*PooledEmbedder, error) {
	if size < 1 {
		size = runtime.NumCPU() / 2
		if size < 1 {
			size = 1
		}
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}
	return &PooledEmbedder{
		inner:  inner,
		pool:   pool,
		logger: slog.Default().With("component", "pooled-embedder"),
	}, nil
}

type embedResult struct {
	vectors [][]float32
	err     error
}

func (p *PooledEmbedder) run(ctx context.Context, fn func() ([][]float32, error)) ([][]float32, error) {
	done := make(chan embedResult, 1)
	err := p.pool.Submit(func() {
		vectors, err := fn()
		done <- embedResult{vectors: vectors, err: err}
	})
	if err != nil {
		p.logger.Error("error submitting embedding task", "err", err)
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.vectors, res.err
	}
}

// EmbedText embeds a single query on the pool.
func (p *PooledEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := p.run(ctx, func() ([][]float32, error) {
		vec, err := p.inner.EmbedText(ctx, text)
		if err != nil {
			return nil, err
		}
		return [][]float32{vec}, nil
	})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts embeds a batch on the pool.
func (p *PooledEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	return p.run(ctx, func() ([][]float32, error) {
		return p.inner.EmbedTexts(ctx, texts)
	})
}

// Dimension delegates to the wrapped embedder.
func (p *PooledEmbedder) Dimension() int {
	return p.inner.Dimension()
}

// Model delegates to the wrapped embedder.
func (p *PooledEmbedder) Model() string {
	return p.inner.Model()
}

// Close releases the worker pool. The wrapped embedder is not closed.
func (p *PooledEmbedder) Close() error {
	p.pool.Release()
	return nil
}
