package resync

import (
	"context"

	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/storage"
)

const (
	// DefaultBatchSize is the default number of documents per batch
	DefaultBatchSize = 50
)

// DocumentIterator iterates over all completed documents in batches.
// Only completed documents are candidates for resync: pending and
// processing documents are still owned by the ingestion pipeline, and
// failed documents have nothing usable to sync.
type DocumentIterator struct {
	repo      storage.DocumentRepository
	batchSize int
}

// NewDocumentIterator creates a new document iterator.
// batchSize: number of documents in each batch (must be > 0)
func NewDocumentIterator(repo storage.DocumentRepository, batchSize int) *DocumentIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &DocumentIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// Count returns the number of completed documents.
func (it *DocumentIterator) Count(ctx context.Context) (int, error) {
	docs, err := it.completed(ctx)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

// ForEach iterates over all completed documents, calling fn for each batch.
// Iteration stops on the first error from fn or when all documents are
// processed. Context cancellation is checked between batches.
func (it *DocumentIterator) ForEach(ctx context.Context, fn func([]*core.Document) error) error {
	docs, err := it.completed(ctx)
	if err != nil {
		return err
	}

	for i := 0; i < len(docs); i += it.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := i + it.batchSize
		if end > len(docs) {
			end = len(docs)
		}

		if err := fn(docs[i:end]); err != nil {
			return err
		}
	}

	return nil
}

func (it *DocumentIterator) completed(ctx context.Context) ([]*core.Document, error) {
	all, err := it.repo.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]*core.Document, 0, len(all))
	for _, doc := range all {
		if doc.Status == core.DocumentStatusCompleted {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}
