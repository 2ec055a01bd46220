package ai

const (
	// DefaultModel is the name OpenAI-compatible hosts serve all-MiniLM-L6-v2 under.
	DefaultModel = "all-minilm"

	// DefaultDimension is the output size of all-MiniLM-L6-v2.
	DefaultDimension = 384
)
