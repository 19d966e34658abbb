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


package resync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/docflow/chunker"
	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/embed"
	"github.com/poiesic/docflow/storage"
	"github.com/poiesic/docflow/vectorstore"
)

// Config holds configuration for the resync operation.
type Config struct {
	// BatchSize is the number of documents to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of documents)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed store writes
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      50,
		ReportInterval: 10,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Resyncer re-syncs every completed document's chunks into the vector store.
// Text is re-chunked from the stored raw text and re-embedded with the
// configured embedder, so a resync after an embedding-model switch rebuilds
// every point in place.
type Resyncer struct {
	documents  storage.DocumentRepository
	content    storage.ContentStore
	embedder   embed.Embedder
	store      vectorstore.Store
	chunker    chunker.Chunker
	collection string
	config     *Config
	progress   io.Writer
	iterator   *DocumentIterator
}

// NewResyncer creates a new resyncer.
// progress: where to write progress output (typically os.Stderr)
func NewResyncer(
	documents storage.DocumentRepository,
	content storage.ContentStore,
	embedder embed.Embedder,
	store vectorstore.Store,
	collection string,
	config *Config,
	progress io.Writer,
) *Resyncer {
	if config == nil {
		config = DefaultConfig()
	}

	return &Resyncer{
		documents:  documents,
		content:    content,
		embedder:   embedder,
		store:      store,
		chunker:    chunker.NewSentenceChunker(chunker.DefaultMinChunkLength),
		collection: collection,
		config:     config,
		progress:   progress,
		iterator:   NewDocumentIterator(documents, config.BatchSize),
	}
}

// Run executes the resync operation. Every completed document is
// re-chunked, re-embedded and re-upserted. Progress is reported to the
// configured writer.
func (r *Resyncer) Run(ctx context.Context) error {
	total, err := r.iterator.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count documents: %w", err)
	}

	if total == 0 {
		fmt.Fprintf(r.progress, "No completed documents to resync\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting resync of %d documents (batch size: %d)\n",
		total, r.config.BatchSize)

	if err := r.store.EnsureCollection(ctx, r.collection); err != nil {
		return fmt.Errorf("failed to ensure collection: %w", err)
	}

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	var failures []error
	err = r.iterator.ForEach(ctx, func(docs []*core.Document) error {
		for _, doc := range docs {
			if err := ctx.Err(); err != nil {
				return err
			}
			// One broken document must not abort the rest of the run.
			if err := r.syncDocument(ctx, doc); err != nil {
				failures = append(failures, fmt.Errorf("failed to resync document %s: %w", doc.Id, err))
			}
			processed++
		}
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Resync complete. Processed %d documents in %v (%.1f documents/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	if len(failures) > 0 {
		fmt.Fprintf(r.progress, "%d of %d documents failed to resync\n", len(failures), total)
		return errors.Join(failures...)
	}

	return nil
}

// syncDocument re-upserts every chunk of one document. Store writes are
// retried with exponential backoff; point ids are deterministic so a retry
// overwrites rather than duplicates.
func (r *Resyncer) syncDocument(ctx context.Context, doc *core.Document) error {
	text, err := r.content.GetRawText(ctx, doc.RawTextRef)
	if err != nil {
		return fmt.Errorf("raw text %s: %w", doc.RawTextRef, err)
	}

	chunks := r.chunker.Chunk(doc.Id, text)
	if len(chunks) == 0 {
		return core.ErrEmptyContent
	}

	now := time.Now().UTC()
	for i := range chunks {
		vector, err := r.embedder.EmbedText(ctx, chunks[i].Text)
		if err != nil {
			return err
		}

		point := &vectorstore.Point{
			ID:     chunks[i].PointID(),
			Vector: vector,
			Payload: vectorstore.Payload{
				Title:     doc.Filename,
				Content:   chunks[i].Text,
				Category:  "document",
				Source:    string(doc.Id),
				CreatedAt: doc.CreatedAt,
				UpdatedAt: now,
			},
		}

		err = RetryWithBackoff(ctx, func() error {
			return r.store.UpsertPoint(ctx, r.collection, point)
		}, r.config.MaxRetries, r.config.RetryDelay)
		if err != nil {
			return err
		}
	}

	return nil
}
