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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/bookrag/ai"
	"github.com/poiesic/bookrag/chunker"
	"github.com/poiesic/bookrag/core"
	"github.com/poiesic/bookrag/storage"
)

// documentProcessor turns one document into stored points: chunk, embed
// every chunk in one batch, then upsert the whole document in one write.
type documentProcessor struct {
	index      storage.Index
	collection string
	chunker    *chunker.Chunker
	embedder   ai.Embedder
	ids        core.IDGenerator
	logger     *slog.Logger
}

// process stores doc and returns the number of points written.
// A document producing no chunks writes nothing and returns 0.
func (dp *documentProcessor) process(ctx context.Context, doc *core.Document) (int, error) {
	chunks := dp.chunker.Chunk(doc.Content)
	if len(chunks) == 0 {
		dp.logger.Debug("document produced no chunks", "page", doc.Page)
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	dp.logger.Debug("generating embeddings for chunks", "page", doc.Page, "chunks", len(texts))
	vectors, err := dp.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		dp.logger.Error("error generating embeddings", "page", doc.Page, "err", err)
		return 0, err
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("%w: expected %d embeddings, received %d", core.ErrEmbedding, len(chunks), len(vectors))
	}

	heading := doc.FirstHeading()
	points := make([]core.Point, len(chunks))
	for i, chunk := range chunks {
		id := dp.ids(doc.Page, chunk.Index)
		points[i] = core.Point{
			ID:     id,
			Vector: vectors[i],
			Payload: core.Payload{
				Page:        doc.Page,
				Heading:     heading,
				Text:        chunk.Text,
				ChunkID:     id,
				ChunkIndex:  chunk.Index,
				TotalChunks: chunk.Total,
			},
		}
	}

	if err := dp.index.Upsert(ctx, dp.collection, points); err != nil {
		dp.logger.Error("error storing points", "page", doc.Page, "points", len(points), "err", err)
		return 0, err
	}
	return len(points), nil
}
