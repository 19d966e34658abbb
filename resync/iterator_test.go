package resync

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/storage"
	"github.com/poiesic/docflow/storage/badger"
)

func setupIteratorRepo(t *testing.T, completed, failed int) storage.DocumentRepository {
	documents, _, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		documents.Close()
		backend.Close()
	})

	ctx := context.Background()
	for i := 0; i < completed; i++ {
		_, err := documents.AddDocument(ctx, &core.Document{
			Id:       core.NewDocumentID(),
			Filename: fmt.Sprintf("done-%d.txt", i),
			FileType: "txt",
			Status:   core.DocumentStatusCompleted,
		})
		require.NoError(t, err)
	}
	for i := 0; i < failed; i++ {
		_, err := documents.AddDocument(ctx, &core.Document{
			Id:       core.NewDocumentID(),
			Filename: fmt.Sprintf("failed-%d.txt", i),
			FileType: "txt",
			Status:   core.DocumentStatusFailed,
			Error:    "boom",
		})
		require.NoError(t, err)
	}

	return documents
}

func TestDocumentIteratorBatches(t *testing.T) {
	documents := setupIteratorRepo(t, 7, 2)

	it := NewDocumentIterator(documents, 3)

	var batches [][]*core.Document
	err := it.ForEach(context.Background(), func(docs []*core.Document) error {
		batches = append(batches, docs)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, batches, 3, "7 documents in batches of 3")
	assert.Len(t, batches[0], 3)
	assert.Len(t, batches[1], 3)
	assert.Len(t, batches[2], 1)

	for _, batch := range batches {
		for _, doc := range batch {
			assert.Equal(t, core.DocumentStatusCompleted, doc.Status)
		}
	}
}

func TestDocumentIteratorCount(t *testing.T) {
	documents := setupIteratorRepo(t, 4, 3)

	it := NewDocumentIterator(documents, 10)
	count, err := it.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, count, "only completed documents are counted")
}

func TestDocumentIteratorStopsOnError(t *testing.T) {
	documents := setupIteratorRepo(t, 6, 0)

	it := NewDocumentIterator(documents, 2)

	boom := errors.New("boom")
	calls := 0
	err := it.ForEach(context.Background(), func(_ []*core.Document) error {
		calls++
		if calls == 2 {
			return boom
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, boom, err)
	assert.Equal(t, 2, calls, "iteration stops at the failing batch")
}

func TestDocumentIteratorEmptyRepository(t *testing.T) {
	documents := setupIteratorRepo(t, 0, 0)

	it := NewDocumentIterator(documents, 10)
	err := it.ForEach(context.Background(), func(_ []*core.Document) error {
		t.Fatal("callback should not run for an empty repository")
		return nil
	})
	assert.NoError(t, err)
}

func TestDocumentIteratorDefaultBatchSize(t *testing.T) {
	documents := setupIteratorRepo(t, 1, 0)

	it := NewDocumentIterator(documents, 0)
	assert.Equal(t, DefaultBatchSize, it.batchSize)
}
