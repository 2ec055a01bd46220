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


package collection

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/bookrag/core"
	"github.com/poiesic/bookrag/storage"
)

// Manager makes sure a collection exists before points are written to it.
type Manager struct {
	index           storage.Index
	verifyDimension bool
	logger          *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager) error

// WithVerifyDimension controls whether an existing collection's vector
// configuration is checked against the requested spec.
// Default is true.
func WithVerifyDimension(verify bool) Option {
	return func(m *Manager) error {
		m.verifyDimension = verify
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewManager creates a collection manager for idx.
func NewManager(idx storage.Index, opts ...Option) (*Manager, error) {
	if idx == nil {
		return nil, ErrIndexRequired
	}
	m := &Manager{
		index:           idx,
		verifyDimension: true,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	m.logger = m.logger.With("component", "collection-manager")
	return m, nil
}

// Ensure creates the collection described by spec if it does not exist.
// When it exists and verification is enabled, its declared dimension and
// distance must match spec or ErrDimensionMismatch is returned.
func (m *Manager) Ensure(ctx context.Context, spec core.CollectionSpec) error {
	if err := core.ValidateCollectionSpec(spec); err != nil {
		return err
	}

	names, err := m.index.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("listing collections: %w", err)
	}

	if !slices.Contains(names, spec.Name) {
		m.logger.Info("creating collection", "collection", spec.Name, "dimension", spec.Dimension, "distance", spec.Distance)
		if err := m.index.CreateCollection(ctx, spec); err != nil {
			return fmt.Errorf("creating collection: %w", err)
		}
		return nil
	}

	if !m.verifyDimension {
		m.logger.Debug("collection exists", "collection", spec.Name)
		return nil
	}

	info, err := m.index.CollectionInfo(ctx, spec.Name)
	if err != nil {
		return fmt.Errorf("reading collection info: %w", err)
	}
	if info.Dimension != spec.Dimension || info.Distance != spec.Distance {
		m.logger.Error("collection configuration mismatch",
			"collection", spec.Name,
			"expectedDimension", spec.Dimension, "actualDimension", info.Dimension,
			"expectedDistance", spec.Distance, "actualDistance", info.Distance)
		return fmt.Errorf("%w: %q has size %d/%s, embedder produces %d/%s",
			core.ErrDimensionMismatch, spec.Name, info.Dimension, info.Distance, spec.Dimension, spec.Distance)
	}

	m.logger.Debug("collection exists and matches", "collection", spec.Name, "points", info.PointsCount)
	return nil
}
