// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/bookrag/core"
)

// MarshalPoint serializes a Point to bytes.
func MarshalPoint(point *core.Point) []byte {
	buf := make([]byte, pointSize(point))
	n := ord.String.Marshal(point.ID, buf)
	n += marshalVector(point.Vector, buf[n:])
	marshalPayload(&point.Payload, buf[n:])
	return buf
}

// UnmarshalPoint deserializes a Point from bytes.
func UnmarshalPoint(data []byte) (*core.Point, error) {
	id, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: point id: %w", ErrSerializationFailed, err)
	}
	vector, m, err := unmarshalVector(data[n:])
	if err != nil {
		return nil, err
	}
	n += m
	payload, _, err := unmarshalPayload(data[n:])
	if err != nil {
		return nil, err
	}
	return &core.Point{ID: id, Vector: vector, Payload: payload}, nil
}

// MarshalCollectionSpec serializes collection metadata to bytes.
func MarshalCollectionSpec(spec core.CollectionSpec) []byte {
	distance := string(spec.Distance)
	size := ord.String.Size(spec.Name) + varint.Int.Size(spec.Dimension) + ord.String.Size(distance)
	buf := make([]byte, size)
	n := ord.String.Marshal(spec.Name, buf)
	n += varint.Int.Marshal(spec.Dimension, buf[n:])
	ord.String.Marshal(distance, buf[n:])
	return buf
}

// UnmarshalCollectionSpec deserializes collection metadata from bytes.
func UnmarshalCollectionSpec(data []byte) (core.CollectionSpec, error) {
	var spec core.CollectionSpec
	name, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return spec, fmt.Errorf("%w: collection name: %w", ErrSerializationFailed, err)
	}
	dim, m, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return spec, fmt.Errorf("%w: collection dimension: %w", ErrSerializationFailed, err)
	}
	n += m
	distance, _, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return spec, fmt.Errorf("%w: collection distance: %w", ErrSerializationFailed, err)
	}
	spec.Name = name
	spec.Dimension = dim
	spec.Distance = core.Distance(distance)
	return spec, nil
}

func pointSize(point *core.Point) int {
	return ord.String.Size(point.ID) + vectorSize(point.Vector) + payloadSize(&point.Payload)
}

func vectorSize(v []float32) int {
	size := varint.Int.Size(len(v))
	for _, x := range v {
		size += raw.Float32.Size(x)
	}
	return size
}

func marshalVector(v []float32, buf []byte) int {
	n := varint.Int.Marshal(len(v), buf)
	for _, x := range v {
		n += raw.Float32.Marshal(x, buf[n:])
	}
	return n
}

func unmarshalVector(data []byte) ([]float32, int, error) {
	length, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, n, fmt.Errorf("%w: vector length: %w", ErrSerializationFailed, err)
	}
	if length < 0 || length > len(data) {
		return nil, n, fmt.Errorf("%w: vector length %d", ErrTruncatedData, length)
	}
	v := make([]float32, length)
	for i := range v {
		x, m, err := raw.Float32.Unmarshal(data[n:])
		if err != nil {
			return nil, n, fmt.Errorf("%w: vector element %d: %w", ErrSerializationFailed, i, err)
		}
		v[i] = x
		n += m
	}
	return v, n, nil
}

func payloadSize(p *core.Payload) int {
	return ord.String.Size(p.Page) +
		ord.String.Size(p.Heading) +
		ord.String.Size(p.Text) +
		ord.String.Size(p.ChunkID) +
		varint.Int.Size(p.ChunkIndex) +
		varint.Int.Size(p.TotalChunks)
}

func marshalPayload(p *core.Payload, buf []byte) int {
	n := ord.String.Marshal(p.Page, buf)
	n += ord.String.Marshal(p.Heading, buf[n:])
	n += ord.String.Marshal(p.Text, buf[n:])
	n += ord.String.Marshal(p.ChunkID, buf[n:])
	n += varint.Int.Marshal(p.ChunkIndex, buf[n:])
	n += varint.Int.Marshal(p.TotalChunks, buf[n:])
	return n
}

func unmarshalPayload(data []byte) (core.Payload, int, error) {
	var p core.Payload
	var n int
	strs := []*string{&p.Page, &p.Heading, &p.Text, &p.ChunkID}
	for _, dst := range strs {
		s, m, err := ord.String.Unmarshal(data[n:])
		if err != nil {
			return p, n, fmt.Errorf("%w: payload: %w", ErrSerializationFailed, err)
		}
		*dst = s
		n += m
	}
	ints := []*int{&p.ChunkIndex, &p.TotalChunks}
	for _, dst := range ints {
		v, m, err := varint.Int.Unmarshal(data[n:])
		if err != nil {
			return p, n, fmt.Errorf("%w: payload: %w", ErrSerializationFailed, err)
		}
		*dst = v
		n += m
	}
	return p, n, nil
}
