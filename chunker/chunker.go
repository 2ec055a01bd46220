package chunker

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/bookrag/core"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	// DefaultMinTokens is the word count at which a chunk is emitted.
	DefaultMinTokens = 300
	// DefaultMaxTokens is the advisory upper bound on chunk size.
	DefaultMaxTokens = 600

	paragraphSeparator = "\n\n"
)

// Chunker splits document text into retrieval-sized passages by
// accumulating whole paragraphs.
type Chunker struct {
	minTokens  int
	maxTokens  int
	enforceMax bool
	splitter   textsplitter.TextSplitter
	logger     *slog.Logger
}

// Option configures a Chunker.
type Option func(*Chunker) error

// WithMinTokens sets the word count at which the paragraph buffer is emitted.
// Default is 300.
func WithMinTokens(n int) Option {
	return func(c *Chunker) error {
		if n < 1 {
			return fmt.Errorf("min tokens must be positive, got %d", n)
		}
		c.minTokens = n
		return nil
	}
}

// WithMaxTokens sets the chunk size ceiling.
// It is only enforced when WithEnforceMax(true) is also given.
// Default is 600.
func WithMaxTokens(n int) Option {
	return func(c *Chunker) error {
		if n < 1 {
			return fmt.Errorf("max tokens must be positive, got %d", n)
		}
		c.maxTokens = n
		return nil
	}
}

// WithEnforceMax re-splits chunks longer than the max token count.
// Re-split chunks no longer preserve paragraph boundaries.
// Default is false.
func WithEnforceMax(enforce bool) Option {
	return func(c *Chunker) error {
		c.enforceMax = enforce
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chunker) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// New creates a Chunker.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		minTokens: DefaultMinTokens,
		maxTokens: DefaultMaxTokens,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.maxTokens < c.minTokens {
		return nil, fmt.Errorf("max tokens (%d) must not be less than min tokens (%d)", c.maxTokens, c.minTokens)
	}

	if c.enforceMax {
		c.splitter = textsplitter.NewRecursiveCharacter(
			textsplitter.WithSeparators([]string{paragraphSeparator, "\n", " "}),
			textsplitter.WithChunkSize(c.maxTokens),
			textsplitter.WithChunkOverlap(0),
			textsplitter.WithLenFunc(countWords),
		)
	}
	c.logger = c.logger.With("component", "chunker")

	return c, nil
}

// MinTokens returns the emit threshold.
func (c *Chunker) MinTokens() int { return c.minTokens }

// MaxTokens returns the configured ceiling.
func (c *Chunker) MaxTokens() int { return c.maxTokens }

// Chunk splits text into chunks with Index and Total populated.
// Empty or whitespace-only text produces no chunks.
func (c *Chunker) Chunk(text string) []core.Chunk {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	paragraphs := strings.Split(text, paragraphSeparator)

	var texts []string
	var buffer []string
	flush := func() {
		joined := strings.TrimSpace(strings.Join(buffer, paragraphSeparator))
		buffer = buffer[:0]
		if joined == "" {
			return
		}
		texts = append(texts, c.enforce(joined)...)
	}

	for _, paragraph := range paragraphs {
		buffer = append(buffer, paragraph)
		if countWords(strings.Join(buffer, " ")) >= c.minTokens {
			flush()
		}
	}
	if len(buffer) > 0 {
		flush()
	}

	chunks := make([]core.Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = core.Chunk{Text: t, Index: i, Total: len(texts)}
	}
	return chunks
}

// enforce re-splits an oversized chunk when a hard ceiling is configured.
func (c *Chunker) enforce(text string) []string {
	if c.splitter == nil || countWords(text) <= c.maxTokens {
		return []string{text}
	}

	parts, err := c.splitter.SplitText(text)
	if err != nil {
		c.logger.Warn("error splitting oversized chunk, keeping it whole", "words", countWords(text), "err", err)
		return []string{text}
	}

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return []string{text}
	}
	return out
}

// countWords counts whitespace-delimited words.
func countWords(s string) int {
	return len(strings.Fields(s))
}
