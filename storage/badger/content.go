package badger

import (
	"bytes"
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/storage"
)

// ContentStore implements storage.ContentStore for BadgerDB.
// Original files are keyed by document id; parsed text is content-addressed.
type ContentStore struct {
	backend *Backend
}

var _ storage.ContentStore = (*ContentStore)(nil)

// NewContentStore creates a new ContentStore.
func NewContentStore(backend *Backend) *ContentStore {
	return &ContentStore{backend: backend}
}

// Close releases resources held by the store.
func (s *ContentStore) Close() error {
	return nil
}

// PutFile stores the original uploaded bytes for a document.
func (s *ContentStore) PutFile(ctx context.Context, id core.DocumentID, data []byte) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeFileKey(id), data); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetFile retrieves the original uploaded bytes for a document.
func (s *ContentStore) GetFile(ctx context.Context, id core.DocumentID) ([]byte, error) {
	var data []byte
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeFileKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			data = bytes.Clone(val)
			return nil
		})
	}, false)

	return data, err
}

// DeleteFile removes the stored file for a document.
// Deleting a missing file is not an error.
func (s *ContentStore) DeleteFile(ctx context.Context, id core.DocumentID) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeFileKey(id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// PutRawText stores parsed plain text under its content-hash ref.
// Identical text maps to the same key, so retries overwrite in place.
func (s *ContentStore) PutRawText(ctx context.Context, text string) (string, error) {
	ref := core.RefFromContent(text)
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeRawTextKey(ref), []byte(text)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return "", err
	}
	return ref, nil
}

// GetRawText retrieves parsed text by its ref.
func (s *ContentStore) GetRawText(ctx context.Context, ref string) (string, error) {
	var text string
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeRawTextKey(ref))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			text = string(val)
			return nil
		})
	}, false)

	return text, err
}

// DeleteRawText removes parsed text by its ref.
// Deleting a missing ref is not an error.
func (s *ContentStore) DeleteRawText(ctx context.Context, ref string) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeRawTextKey(ref)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
