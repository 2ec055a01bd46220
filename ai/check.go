package ai

import (
	"fmt"
	"math"

	"github.com/poiesic/bookrag/core"
)

// CheckInputs rejects an empty batch or any empty text.
func CheckInputs(texts []string) error {
	if len(texts) == 0 {
		return fmt.Errorf("%w: empty batch", core.ErrEmbedding)
	}
	for i, text := range texts {
		if text == "" {
			return fmt.Errorf("%w: text %d: %w", core.ErrEmbedding, i, core.ErrEmptyText)
		}
	}
	return nil
}

// CheckEmbeddings verifies a model returned exactly one vector of the
// expected dimension per input.
func CheckEmbeddings(embeddings [][]float32, count, dimension int) error {
	if len(embeddings) != count {
		return fmt.Errorf("%w: expected %d embeddings, received %d", core.ErrEmbedding, count, len(embeddings))
	}
	for i, vec := range embeddings {
		if len(vec) != dimension {
			return fmt.Errorf("%w: embedding %d has %d dimensions, expected %d",
				core.ErrEmbedding, i, len(vec), dimension)
		}
	}
	return nil
}

// NormalizeVector scales a vector to unit length.
// Returns a new vector. If the input is a zero vector, returns a zero vector.
func NormalizeVector(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	var magnitude float32
	for _, val := range v {
		magnitude += val * val
	}
	magnitude = float32(math.Sqrt(float64(magnitude)))

	result := make([]float32, len(v))
	if magnitude == 0 {
		return result
	}
	for i, val := range v {
		result[i] = val / magnitude
	}
	return result
}
