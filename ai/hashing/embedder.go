// Package hashing provides an offline ai.Embedder based on feature hashing.
//
// Tokens are lowercased, stripped of punctuation and stop words, and hashed
// with FNV-1a into a fixed number of buckets. The resulting term-frequency
// vector is L2 normalized, so cosine similarity reflects lexical overlap.
// No network or model download is needed, which makes it suitable for
// development corpora and air-gapped deployments.
package hashing

import (
	"context"
	"hash/fnv"
	"log/slog"
	"strings"
	"unicode"

	"github.com/poiesic/bookrag/ai"
)

// Stop words dropped before hashing
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "or": true, "what": true, "how": true, "which": true,
}

// Embedder implements ai.Embedder with feature hashing.
type Embedder struct {
	dimension int
	logger    *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// NewEmbedder creates a hashing embedder producing vectors of the given
// dimension. Non-positive dimensions select ai.DefaultDimension.
func NewEmbedder(dimension int) ai.Embedder {
	if dimension <= 0 {
		dimension = ai.DefaultDimension
	}
	return &Embedder{
		dimension: dimension,
		logger:    slog.Default().With("component", "hashing-embedder"),
	}
}

// EmbedText embeds a single query.
func (e *Embedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	if err := ai.CheckInputs([]string{text}); err != nil {
		return nil, err
	}
	return e.embed(text), nil
}

// EmbedTexts embeds a batch of passages.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ai.CheckInputs(texts); err != nil {
		return nil, err
	}
	e.logger.Debug("hashing texts", "count", len(texts))

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vectors[i] = e.embed(text)
	}
	return vectors, nil
}

// Dimension returns the number of hash buckets.
func (e *Embedder) Dimension() int {
	return e.dimension
}

// Model returns the model name recorded for this embedder.
func (e *Embedder) Model() string {
	return "hashing-fnv1a"
}

func (e *Embedder) embed(text string) []float32 {
	vector := make([]float32, e.dimension)
	for _, token := range tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(token))
		vector[h.Sum32()%uint32(e.dimension)]++
	}
	return ai.NormalizeVector(vector)
}

// tokenize splits text into words, lowercases, trims punctuation, and removes stop words
func tokenize(text string) []string {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '-'
	})
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, "'-"))
		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}

	return filtered
}
