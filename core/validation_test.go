package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPoint() *Point {
	return &Point{
		ID:     "0b6e3c52-5f0e-4a57-9d52-0c1f3f3b6f11",
		Vector: []float32{0.1, 0.2, 0.3},
		Payload: Payload{
			Page:        "intro.md",
			Heading:     "Intro",
			Text:        "Robots are embodied agents.",
			ChunkID:     "0b6e3c52-5f0e-4a57-9d52-0c1f3f3b6f11",
			ChunkIndex:  0,
			TotalChunks: 1,
		},
	}
}

func TestValidatePoint(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Point)
		wantErr bool
	}{
		{
			name:    "valid point",
			mutate:  func(p *Point) {},
			wantErr: false,
		},
		{
			name:    "empty id",
			mutate:  func(p *Point) { p.ID = "" },
			wantErr: true,
		},
		{
			name:    "wrong dimension",
			mutate:  func(p *Point) { p.Vector = []float32{0.1} },
			wantErr: true,
		},
		{
			name:    "empty text",
			mutate:  func(p *Point) { p.Payload.Text = "" },
			wantErr: true,
		},
		{
			name:    "index past total",
			mutate:  func(p *Point) { p.Payload.ChunkIndex = 1 },
			wantErr: true,
		},
		{
			name:    "negative index",
			mutate:  func(p *Point) { p.Payload.ChunkIndex = -1 },
			wantErr: true,
		},
		{
			name:    "empty heading is allowed",
			mutate:  func(p *Point) { p.Payload.Heading = "" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPoint()
			tt.mutate(p)
			err := ValidatePoint(p, 3)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPoint)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("nil point", func(t *testing.T) {
		assert.ErrorIs(t, ValidatePoint(nil, 3), ErrInvalidPoint)
	})
}

func TestValidateCollectionSpec(t *testing.T) {
	assert.NoError(t, ValidateCollectionSpec(CollectionSpec{Name: DefaultCollection, Dimension: 384, Distance: DistanceCosine}))
	assert.Error(t, ValidateCollectionSpec(CollectionSpec{Name: "", Dimension: 384, Distance: DistanceCosine}))
	assert.Error(t, ValidateCollectionSpec(CollectionSpec{Name: "c", Dimension: 0, Distance: DistanceCosine}))
	assert.Error(t, ValidateCollectionSpec(CollectionSpec{Name: "c", Dimension: 384, Distance: "Dot"}))
}

func TestIndexError(t *testing.T) {
	inner := fmt.Errorf("connection refused")
	err := error(&IndexError{Op: "search", Collection: "c", Status: 503, Err: inner})

	assert.ErrorIs(t, err, ErrIndexUnavailable)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, `index search "c": status 503: connection refused`, err.Error())

	var ie *IndexError
	require.ErrorAs(t, fmt.Errorf("%w: %w", ErrRetrieval, err), &ie)
	assert.Equal(t, 503, ie.Status)

	assert.Equal(t, "index list", (&IndexError{Op: "list"}).Error())
}
