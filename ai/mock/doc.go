// Package mock provides a test double for the ai.Embedder interface.
//
// # Usage in Tests
//
//	embedder := mock.NewMockEmbedder()
//	vec, err := embedder.EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
//	    return nil, fmt.Errorf("%w: model offline", core.ErrEmbedding)
//	}
//
//	// Check call counts
//	count := embedder.CallCount()
//
// The default behavior returns deterministic unit vectors of Dim length
// (384 unless set) derived from an FNV hash of the text, and rejects empty
// input the same way production embedders do.
package mock
