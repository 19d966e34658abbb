// Package mock provides an in-memory vectorstore.Store for tests.
package mock

import (
	"context"
	"sync"

	"github.com/poiesic/docflow/vectorstore"
)

// MockStore is an in-memory test double for vectorstore.Store.
// It records every upsert so tests can assert on write patterns.
type MockStore struct {
	// UpsertPointFunc is called by UpsertPoint if set, allowing tests
	// to inject failures.
	UpsertPointFunc func(ctx context.Context, collection string, point *vectorstore.Point) error

	// DeletePointFunc is called by DeletePoint if set.
	DeletePointFunc func(ctx context.Context, collection string, id string) error

	mu          sync.Mutex
	collections map[string]map[string]*vectorstore.Point
	upsertLog   []string
	closed      bool
}

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{
		collections: make(map[string]map[string]*vectorstore.Point),
	}
}

func (m *MockStore) ListCollections(ctx context.Context) ([]vectorstore.CollectionInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	infos := make([]vectorstore.CollectionInfo, 0, len(m.collections))
	for name, points := range m.collections {
		infos = append(infos, vectorstore.CollectionInfo{
			Name:        name,
			PointsCount: int64(len(points)),
		})
	}
	return infos, nil
}

func (m *MockStore) EnsureCollection(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.collections[name]; !ok {
		m.collections[name] = make(map[string]*vectorstore.Point)
	}
	return nil
}

func (m *MockStore) UpsertPoint(ctx context.Context, collection string, point *vectorstore.Point) error {
	if m.UpsertPointFunc != nil {
		if err := m.UpsertPointFunc(ctx, collection, point); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	points, ok := m.collections[collection]
	if !ok {
		return vectorstore.ErrCollectionNotFound
	}
	points[point.ID] = point
	m.upsertLog = append(m.upsertLog, point.ID)
	return nil
}

func (m *MockStore) DeletePoint(ctx context.Context, collection string, id string) error {
	if m.DeletePointFunc != nil {
		if err := m.DeletePointFunc(ctx, collection, id); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if points, ok := m.collections[collection]; ok {
		delete(points, id)
	}
	return nil
}

func (m *MockStore) DeleteCollection(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collections, name)
	return nil
}

func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// PointCount returns the number of points currently in the collection.
func (m *MockStore) PointCount(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.collections[collection])
}

// GetPoint returns the stored point with the given id, or nil.
func (m *MockStore) GetPoint(collection, id string) *vectorstore.Point {
	m.mu.Lock()
	defer m.mu.Unlock()

	if points, ok := m.collections[collection]; ok {
		return points[id]
	}
	return nil
}

// UpsertLog returns the ids of all upserted points in call order,
// including overwrites of the same id.
func (m *MockStore) UpsertLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.upsertLog))
	copy(out, m.upsertLog)
	return out
}
