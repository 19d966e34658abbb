package storage

import (
	"context"

	"github.com/poiesic/docflow/core"
)

// DocumentRepository provides durable operations for document records.
// Implementations must be thread-safe: concurrent pipeline workers write to
// different document keys, never the same key.
type DocumentRepository interface {
	// AddDocument persists a new document record.
	// Sets CreatedAt if not already set. Returns the stored document.
	AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error)

	// UpdateDocument replaces an existing document record.
	// Returns ErrNotFound if the document doesn't exist.
	UpdateDocument(ctx context.Context, doc *core.Document) (*core.Document, error)

	// DeleteDocument removes a document record by id.
	// Returns ErrNotFound if the document doesn't exist.
	DeleteDocument(ctx context.Context, id core.DocumentID) error

	// GetDocument retrieves a single document by id.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.DocumentID) (*core.Document, error)

	// ListDocuments retrieves all documents ordered by creation time ascending.
	ListDocuments(ctx context.Context) ([]*core.Document, error)

	// Close releases resources held by the repository.
	Close() error
}

// TaskRepository provides durable operations for task records. One task is
// active per document at a time; reprocessing stores a superseding task under
// the same document key.
type TaskRepository interface {
	// PutTask inserts or replaces the task record.
	// Sets CreatedAt on first write and UpdatedAt on every write.
	PutTask(ctx context.Context, task *core.Task) (*core.Task, error)

	// GetTask retrieves a single task by id.
	// Returns ErrNotFound if the task doesn't exist.
	GetTask(ctx context.Context, id core.TaskID) (*core.Task, error)

	// GetTaskByDocument retrieves the active task for a document.
	// Returns ErrNotFound if the document has no task.
	GetTaskByDocument(ctx context.Context, docID core.DocumentID) (*core.Task, error)

	// DeleteTaskByDocument removes the task associated with a document.
	// Deleting a document without a task is not an error.
	DeleteTaskByDocument(ctx context.Context, docID core.DocumentID) error

	// ListTasks retrieves all task records, ordered by document id.
	ListTasks(ctx context.Context) ([]*core.Task, error)

	// Close releases resources held by the repository.
	Close() error
}

// ContentStore holds the two blobs the pipeline owns per document: the
// original uploaded file (needed to reprocess from the beginning) and the
// parsed plain text, stored content-addressed.
type ContentStore interface {
	// PutFile stores the original uploaded bytes for a document.
	PutFile(ctx context.Context, id core.DocumentID, data []byte) error

	// GetFile retrieves the original uploaded bytes for a document.
	// Returns ErrNotFound if no file is stored.
	GetFile(ctx context.Context, id core.DocumentID) ([]byte, error)

	// DeleteFile removes the stored file for a document.
	DeleteFile(ctx context.Context, id core.DocumentID) error

	// PutRawText stores parsed plain text and returns its content-hash ref.
	// Storing identical text twice yields the same ref.
	PutRawText(ctx context.Context, text string) (string, error)

	// GetRawText retrieves parsed text by its ref.
	// Returns ErrNotFound if the ref is unknown.
	GetRawText(ctx context.Context, ref string) (string, error)

	// DeleteRawText removes parsed text by its ref.
	DeleteRawText(ctx context.Context, ref string) error

	// Close releases resources held by the store.
	Close() error
}
