package core

// DefaultCollection is the collection name used when none is configured.
const DefaultCollection = "physical-ai-book"

// Distance names the similarity metric of a collection.
type Distance string

const (
	// DistanceCosine ranks points by cosine similarity, higher is closer.
	DistanceCosine Distance = "Cosine"
)

// Document is one source file of the corpus.
type Document struct {
	Page     string   // Path relative to the corpus root, '/'-separated
	Content  string   // Raw file text
	Headings []string // Heading texts in document order, may be empty
	Title    string   // Front matter title, empty when absent
}

// FirstHeading returns the document's first heading or "".
func (d *Document) FirstHeading() string {
	if len(d.Headings) == 0 {
		return ""
	}
	return d.Headings[0]
}

// Chunk is a passage derived from a Document.
type Chunk struct {
	Text  string
	Index int // Zero-based position within the document's chunks
	Total int // Number of chunks derived from the same document
}

// Payload is the metadata stored alongside each vector.
type Payload struct {
	Page        string `json:"page"`
	Heading     string `json:"heading"`
	Text        string `json:"text"`
	ChunkID     string `json:"chunk_id"`
	ChunkIndex  int    `json:"chunk_index"`
	TotalChunks int    `json:"total_chunks"`
}

// Point is a stored record: id, vector and payload.
type Point struct {
	ID      string
	Vector  []float32
	Payload Payload
}

// ScoredPoint is a search hit returned by a vector index.
type ScoredPoint struct {
	ID      string
	Score   float32
	Payload Payload
}

// CollectionSpec describes a named vector collection.
type CollectionSpec struct {
	Name      string
	Dimension int
	Distance  Distance
}

// IngestSummary reports the outcome of a successful ingestion run.
type IngestSummary struct {
	Status             string `json:"status"`
	DocumentsProcessed int    `json:"documents_processed"`
	VectorsStored      int    `json:"vectors_stored"`
	Collection         string `json:"collection"`
}

// StatusSuccess is the only status an IngestSummary carries.
const StatusSuccess = "success"

// QueryResult is one formatted retrieval hit.
type QueryResult struct {
	Page    string  `json:"page"`
	Heading string  `json:"heading"`
	Score   float32 `json:"score"`
	Text    string  `json:"text"`
}

// ResultFromPoint maps a scored point to a QueryResult.
func ResultFromPoint(sp ScoredPoint) QueryResult {
	return QueryResult{
		Page:    sp.Payload.Page,
		Heading: sp.Payload.Heading,
		Score:   sp.Score,
		Text:    sp.Payload.Text,
	}
}
