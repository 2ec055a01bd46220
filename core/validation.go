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


package core

import (
	"fmt"
)

// ValidatePoint validates a Point before it is written to an index.
//
// Validation rules:
//   - ID must not be empty
//   - Vector length must equal dimension
//   - Payload text must not be empty
//   - ChunkIndex must lie in [0, TotalChunks)
func ValidatePoint(point *Point, dimension int) error {
	if point == nil {
		return fmt.Errorf("%w: point is nil", ErrInvalidPoint)
	}

	if point.ID == "" {
		return fmt.Errorf("%w: id is empty", ErrInvalidPoint)
	}

	if len(point.Vector) != dimension {
		return fmt.Errorf("%w: vector has %d dimensions, expected %d", ErrInvalidPoint, len(point.Vector), dimension)
	}

	if point.Payload.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPoint, ErrEmptyText)
	}

	if point.Payload.ChunkIndex < 0 || point.Payload.ChunkIndex >= point.Payload.TotalChunks {
		return fmt.Errorf("%w: chunk index %d out of range [0,%d)", ErrInvalidPoint,
			point.Payload.ChunkIndex, point.Payload.TotalChunks)
	}

	return nil
}

// ValidateCollectionSpec checks that a collection can be created from spec.
func ValidateCollectionSpec(spec CollectionSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("collection name cannot be empty")
	}
	if spec.Dimension <= 0 {
		return fmt.Errorf("collection %q: dimension must be positive, got %d", spec.Name, spec.Dimension)
	}
	if spec.Distance != DistanceCosine {
		return fmt.Errorf("collection %q: unsupported distance %q", spec.Name, spec.Distance)
	}
	return nil
}
