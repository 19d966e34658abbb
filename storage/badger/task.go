package badger

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/storage"
)

// TaskRepository implements storage.TaskRepository for BadgerDB.
type TaskRepository struct {
	backend *Backend
}

var _ storage.TaskRepository = (*TaskRepository)(nil)

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(backend *Backend) *TaskRepository {
	return &TaskRepository{backend: backend}
}

// Close releases resources held by the repository.
func (r *TaskRepository) Close() error {
	return nil
}

// PutTask inserts or replaces the task record. A task stored under a document
// that already has a different task supersedes it: the old record is removed
// so exactly one task stays active per document.
func (r *TaskRepository) PutTask(ctx context.Context, task *core.Task) (*core.Task, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		if task.CreatedAt.IsZero() {
			task.CreatedAt = now
		}
		task.UpdatedAt = now

		docKey := makeTaskDocumentKey(task.DocumentId)
		prevID, err := r.readTaskID(tx, docKey)
		if err != nil {
			return err
		}
		if prevID != "" && prevID != task.Id {
			if err := tx.Delete(makeTaskKey(prevID)); err != nil {
				return err
			}
		}

		if err := tx.Set(makeTaskKey(task.Id), storage.MarshalTask(task)); err != nil {
			return err
		}
		if err := tx.Set(docKey, storage.MarshalTaskID(task.Id)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)

	return task, err
}

// GetTask retrieves a single task by ID.
func (r *TaskRepository) GetTask(ctx context.Context, id core.TaskID) (*core.Task, error) {
	var task *core.Task
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		task, err = r.readTask(tx, makeTaskKey(id))
		if err != nil {
			return err
		}
		if task == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)

	return task, err
}

// GetTaskByDocument retrieves the active task for a document.
func (r *TaskRepository) GetTaskByDocument(ctx context.Context, docID core.DocumentID) (*core.Task, error) {
	var task *core.Task
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		id, err := r.readTaskID(tx, makeTaskDocumentKey(docID))
		if err != nil {
			return err
		}
		if id == "" {
			return storage.ErrNotFound
		}

		task, err = r.readTask(tx, makeTaskKey(id))
		if err != nil {
			return err
		}
		if task == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)

	return task, err
}

// DeleteTaskByDocument removes the task associated with a document.
func (r *TaskRepository) DeleteTaskByDocument(ctx context.Context, docID core.DocumentID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		docKey := makeTaskDocumentKey(docID)
		id, err := r.readTaskID(tx, docKey)
		if err != nil {
			return err
		}
		if id == "" {
			return nil
		}

		if err := tx.Delete(makeTaskKey(id)); err != nil {
			return err
		}
		if err := tx.Delete(docKey); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
}

// ListTasks retrieves all task records ordered by document id.
func (r *TaskRepository) ListTasks(ctx context.Context) ([]*core.Task, error) {
	var tasks []*core.Task

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(taskRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var task *core.Task
			err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				task, unmarshalErr = storage.UnmarshalTask(val)
				return unmarshalErr
			})
			if err != nil {
				return err
			}
			if task != nil {
				tasks = append(tasks, task)
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	slices.SortFunc(tasks, func(a, b *core.Task) int {
		return strings.Compare(string(a.DocumentId), string(b.DocumentId))
	})

	return tasks, nil
}

// readTask reads a task within a transaction.
// Returns nil, nil if the key does not exist.
func (r *TaskRepository) readTask(tx *badger.Txn, key []byte) (*core.Task, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var task *core.Task
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		task, unmarshalErr = storage.UnmarshalTask(val)
		return unmarshalErr
	})
	return task, err
}

// readTaskID reads a document-to-task index entry within a transaction.
// Returns "" if the key does not exist.
func (r *TaskRepository) readTaskID(tx *badger.Txn, key []byte) (core.TaskID, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return "", nil
		}
		return "", err
	}

	var id core.TaskID
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		id, unmarshalErr = storage.UnmarshalTaskID(val)
		return unmarshalErr
	})
	return id, err
}
