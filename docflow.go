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


package docflow

import (
	"io"
	"log/slog"

	"github.com/poiesic/docflow/embed"
	"github.com/poiesic/docflow/ingestion"
	"github.com/poiesic/docflow/parser"
	"github.com/poiesic/docflow/resync"
	"github.com/poiesic/docflow/storage"
	"github.com/poiesic/docflow/storage/badger"
	"github.com/poiesic/docflow/vectorstore"
	"github.com/poiesic/docflow/vectorstore/qdrant"
)

// Database bundles the durable repositories with the external collaborators
// (parser service, embedder, vector store) and acts as the factory for
// pipelines and resyncers.
type Database struct {
	backend   *badger.Backend
	documents storage.DocumentRepository
	tasks     storage.TaskRepository
	content   storage.ContentStore
	parser    parser.Client
	embedder  embed.Embedder
	store     vectorstore.Store
	logger    *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	embedConfig  *embed.Config
	parserConfig parser.Config
	qdrantConfig qdrant.Config

	// Overrides; when set, the corresponding config is ignored.
	parserClient parser.Client
	embedder     embed.Embedder
	store        vectorstore.Store
}

// WithEmbeddingConfig sets the embedding service configuration.
func WithEmbeddingConfig(cfg *embed.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if cfg != nil {
			o.embedConfig = cfg
		}
	}
}

// WithParserConfig sets the parser service configuration.
func WithParserConfig(cfg parser.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.parserConfig = cfg
	}
}

// WithQdrantConfig sets the vector store configuration.
func WithQdrantConfig(cfg qdrant.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.qdrantConfig = cfg
	}
}

// WithParserClient replaces the HTTP parser client entirely.
func WithParserClient(client parser.Client) DatabaseOption {
	return func(o *databaseOptions) {
		o.parserClient = client
	}
}

// WithEmbedder replaces the OpenAI-compatible embedder entirely.
func WithEmbedder(embedder embed.Embedder) DatabaseOption {
	return func(o *databaseOptions) {
		o.embedder = embedder
	}
}

// WithVectorStore replaces the Qdrant store entirely.
func WithVectorStore(store vectorstore.Store) DatabaseOption {
	return func(o *databaseOptions) {
		o.store = store
	}
}

// NewDatabase opens the durable store at filePath and wires up the external
// collaborators. Pass an empty filePath to run fully in memory (tests).
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		embedConfig:  embed.DefaultConfig(),
		qdrantConfig: qdrant.Config{URL: "http://localhost:6333"},
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, filePath == "")
	if err != nil {
		return nil, err
	}

	documents := badger.NewDocumentRepository(backend)
	tasks := badger.NewTaskRepository(backend)
	content := badger.NewContentStore(backend)

	parserClient := options.parserClient
	if parserClient == nil {
		parserClient = parser.NewHTTPClient(options.parserConfig)
	}

	embedder := options.embedder
	if embedder == nil {
		embedder, err = embed.NewOpenAIEmbedder(options.embedConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	store := options.store
	if store == nil {
		store = qdrant.NewStore(options.qdrantConfig, slog.Default())
	}

	return &Database{
		backend:   backend,
		documents: documents,
		tasks:     tasks,
		content:   content,
		parser:    parserClient,
		embedder:  embedder,
		store:     store,
		logger:    slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	if err := db.store.Close(); err != nil {
		db.logger.Error("error closing vector store", "err", err)
	}

	if err := db.content.Close(); err != nil {
		db.logger.Error("error closing content store", "err", err)
		return err
	}
	if err := db.tasks.Close(); err != nil {
		db.logger.Error("error closing task repository", "err", err)
		return err
	}
	if err := db.documents.Close(); err != nil {
		db.logger.Error("error closing document repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) DocumentRepository() storage.DocumentRepository {
	return db.documents
}

func (db *Database) TaskRepository() storage.TaskRepository {
	return db.tasks
}

func (db *Database) ContentStore() storage.ContentStore {
	return db.content
}

func (db *Database) VectorStore() vectorstore.Store {
	return db.store
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.documents, db.tasks, db.content, db.parser, db.embedder, db.store, opts...)
}

func (db *Database) NewResyncer(collection string, cfg *resync.Config, progress io.Writer) *resync.Resyncer {
	return resync.NewResyncer(db.documents, db.content, db.embedder, db.store, collection, cfg, progress)
}
