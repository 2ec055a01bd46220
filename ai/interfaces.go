package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single query string.
	// Returns an error wrapping core.ErrEmbedding if text is empty or the
	// model fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple passages in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Either every text is embedded or an error is returned; a partial batch
	// is never returned.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension reports the length of every vector this embedder produces.
	Dimension() int

	// Model names the embedding model, used to tag collections.
	Model() string
}

// Closer is implemented by embedders holding resources such as worker pools.
type Closer interface {
	Close() error
}
