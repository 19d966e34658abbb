// Package vectorstore defines the interface for syncing document chunks
// with an external vector database, along with the point payload shape.
//
// Implementations live in subpackages:
//   - qdrant: a minimal REST client to a Qdrant-compatible server
//   - mock: an in-memory store for tests
package vectorstore

import (
	"context"
	"time"
)

// Payload holds the metadata attached to each point in the store.
type Payload struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Point is a single vector with its logical id and payload.
// The id is deterministic per chunk so repeated upserts overwrite
// rather than duplicate.
type Point struct {
	ID      string
	Vector  []float32
	Payload Payload
}

// CollectionInfo describes one collection in the store.
type CollectionInfo struct {
	Name        string
	PointsCount int64
}

// Store is the interface to an external vector database.
type Store interface {
	// ListCollections returns the collections currently in the store.
	ListCollections(ctx context.Context) ([]CollectionInfo, error)

	// EnsureCollection creates the named collection if it does not exist.
	// Calling it for an existing collection is a no-op.
	EnsureCollection(ctx context.Context, name string) error

	// UpsertPoint inserts or overwrites a point in the collection.
	UpsertPoint(ctx context.Context, collection string, point *Point) error

	// DeletePoint removes a point by its logical id. Deleting a point
	// that does not exist is not an error.
	DeletePoint(ctx context.Context, collection string, id string) error

	// DeleteCollection drops the collection and all its points.
	DeleteCollection(ctx context.Context, name string) error

	// Close releases any resources held by the store.
	Close() error
}
