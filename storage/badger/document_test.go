package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/storage"
)

func newTestDocument(filename string) *core.Document {
	return &core.Document{
		Id:       core.NewDocumentID(),
		Filename: filename,
		FileType: core.FileTypeFromName(filename),
		FileSize: 1024,
		Status:   core.DocumentStatusPending,
	}
}

func TestDocumentBasics(t *testing.T) {
	docs, tasks, content, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() {
		content.Close()
		tasks.Close()
		docs.Close()
		backend.Close()
	}()

	ctx := context.Background()

	doc := newTestDocument("report.txt")
	added, err := docs.AddDocument(ctx, doc)
	if err != nil {
		t.Fatalf("Failed to add document: %v", err)
	}
	if added.CreatedAt.IsZero() {
		t.Fatal("Expected CreatedAt to be set")
	}

	retrieved, err := docs.GetDocument(ctx, doc.Id)
	if err != nil {
		t.Fatalf("Failed to get document: %v", err)
	}
	if retrieved.Filename != "report.txt" {
		t.Fatalf("Expected 'report.txt', got '%s'", retrieved.Filename)
	}
	if retrieved.Status != core.DocumentStatusPending {
		t.Fatalf("Expected pending status, got '%s'", retrieved.Status)
	}
}

func TestDocumentUpdate(t *testing.T) {
	docs, tasks, content, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { content.Close(); tasks.Close(); docs.Close(); backend.Close() }()

	ctx := context.Background()

	doc := newTestDocument("report.txt")
	if _, err := docs.AddDocument(ctx, doc); err != nil {
		t.Fatalf("Failed to add document: %v", err)
	}

	doc.Status = core.DocumentStatusCompleted
	doc.ChunkCount = 4
	doc.ProcessedAt = time.Now().UTC()
	if _, err := docs.UpdateDocument(ctx, doc); err != nil {
		t.Fatalf("Failed to update document: %v", err)
	}

	retrieved, err := docs.GetDocument(ctx, doc.Id)
	if err != nil {
		t.Fatalf("Failed to get document: %v", err)
	}
	if retrieved.Status != core.DocumentStatusCompleted {
		t.Fatalf("Expected completed status, got '%s'", retrieved.Status)
	}
	if retrieved.ChunkCount != 4 {
		t.Fatalf("Expected 4 chunks, got %d", retrieved.ChunkCount)
	}
}

func TestDocumentUpdate_NotFound(t *testing.T) {
	docs, tasks, content, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { content.Close(); tasks.Close(); docs.Close(); backend.Close() }()

	doc := newTestDocument("missing.txt")
	_, err = docs.UpdateDocument(context.Background(), doc)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestDocumentDelete(t *testing.T) {
	docs, tasks, content, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { content.Close(); tasks.Close(); docs.Close(); backend.Close() }()

	ctx := context.Background()

	doc := newTestDocument("report.txt")
	if _, err := docs.AddDocument(ctx, doc); err != nil {
		t.Fatalf("Failed to add document: %v", err)
	}

	if err := docs.DeleteDocument(ctx, doc.Id); err != nil {
		t.Fatalf("Failed to delete document: %v", err)
	}

	if _, err := docs.GetDocument(ctx, doc.Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}

	listed, err := docs.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("Failed to list documents: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("Expected empty list after delete, got %d entries", len(listed))
	}
}

func TestDocumentList_OrderedByCreation(t *testing.T) {
	docs, tasks, content, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { content.Close(); tasks.Close(); docs.Close(); backend.Close() }()

	ctx := context.Background()
	now := time.Now().UTC()

	names := []string{"first.txt", "second.md", "third.csv"}
	for i, name := range names {
		doc := newTestDocument(name)
		doc.CreatedAt = now.Add(time.Duration(i) * time.Second)
		if _, err := docs.AddDocument(ctx, doc); err != nil {
			t.Fatalf("Failed to add document %s: %v", name, err)
		}
	}

	listed, err := docs.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("Failed to list documents: %v", err)
	}
	if len(listed) != len(names) {
		t.Fatalf("Expected %d documents, got %d", len(names), len(listed))
	}
	for i, name := range names {
		if listed[i].Filename != name {
			t.Errorf("Position %d: expected %s, got %s", i, name, listed[i].Filename)
		}
	}
}
