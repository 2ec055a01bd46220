package qdrant

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/poiesic/bookrag/core"
)

// Request bodies

type vectorParams struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"`
}

type createCollectionRequest struct {
	Vectors vectorParams `json:"vectors"`
}

type pointStruct struct {
	ID      string       `json:"id"`
	Vector  []float32    `json:"vector"`
	Payload core.Payload `json:"payload"`
}

type upsertRequest struct {
	Points []pointStruct `json:"points"`
}

type searchRequest struct {
	Vector      []float32 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
}

// Response bodies. Pointer fields distinguish absent from zero.

type listCollectionsResponse struct {
	Result *struct {
		Collections []struct {
			Name string `json:"name"`
		} `json:"collections"`
	} `json:"result"`
}

type boolResponse struct {
	Result *bool `json:"result"`
}

type collectionInfoResponse struct {
	Result *struct {
		PointsCount *int `json:"points_count"`
		Config      struct {
			Params struct {
				Vectors json.RawMessage `json:"vectors"`
			} `json:"params"`
		} `json:"config"`
	} `json:"result"`
}

type updateResponse struct {
	Result *struct {
		OperationID int64  `json:"operation_id"`
		Status      string `json:"status"`
	} `json:"result"`
}

type searchResponse struct {
	Result *[]scoredPoint `json:"result"`
}

type scoredPoint struct {
	ID      pointID      `json:"id"`
	Score   *float32     `json:"score"`
	Payload pointPayload `json:"payload"`
}

// pointID holds a Qdrant point ID, which is either an unsigned integer or
// a UUID string.
type pointID struct {
	raw json.RawMessage
}

func (p *pointID) UnmarshalJSON(data []byte) error {
	p.raw = append(p.raw[:0], data...)
	return nil
}

// String returns the ID in its canonical string form.
func (p pointID) String() (string, error) {
	if len(p.raw) == 0 || string(p.raw) == "null" {
		return "", fmt.Errorf("missing id")
	}
	var s string
	if err := json.Unmarshal(p.raw, &s); err == nil {
		return s, nil
	}
	var n uint64
	if err := json.Unmarshal(p.raw, &n); err == nil {
		return strconv.FormatUint(n, 10), nil
	}
	return "", fmt.Errorf("id %s is neither a string nor an unsigned integer", p.raw)
}

// pointPayload is the payload schema written by ingestion. Content is the
// key earlier deployments stored chunk text under.
type pointPayload struct {
	Page        *string `json:"page"`
	Heading     *string `json:"heading"`
	Text        *string `json:"text"`
	Content     *string `json:"content"`
	ChunkID     *string `json:"chunk_id"`
	ChunkIndex  *int    `json:"chunk_index"`
	TotalChunks *int    `json:"total_chunks"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// toPayload converts to the domain payload, defaulting absent fields.
func (p pointPayload) toPayload() core.Payload {
	text := deref(p.Text)
	if p.Text == nil {
		text = deref(p.Content)
	}
	return core.Payload{
		Page:        deref(p.Page),
		Heading:     deref(p.Heading),
		Text:        text,
		ChunkID:     deref(p.ChunkID),
		ChunkIndex:  deref(p.ChunkIndex),
		TotalChunks: deref(p.TotalChunks),
	}
}
