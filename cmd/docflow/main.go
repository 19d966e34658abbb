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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/docflow"
	"github.com/poiesic/docflow/config"
	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/embed"
	"github.com/poiesic/docflow/ingestion"
	"github.com/poiesic/docflow/parser"
	"github.com/poiesic/docflow/resync"
	"github.com/poiesic/docflow/vectorstore/qdrant"
)

func main() {
	// Best effort; secrets may also come from the real environment.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "docflow",
		Usage: "Document knowledge-ingestion pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
				Value:   "config.yaml",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest one or more files into the knowledge store",
				ArgsUsage: "FILE [FILE...]",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "collection",
						Usage: "Vector-store collection to sync into (overrides config)",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of documents to process concurrently",
					},
				},
			},
			{
				Name:   "status",
				Usage:  "Show all documents and their task progress",
				Action: statusCommand,
			},
			{
				Name:      "reprocess",
				Usage:     "Reprocess a failed document from the beginning",
				ArgsUsage: "DOCUMENT_ID",
				Action:    reprocessCommand,
			},
			{
				Name:      "delete",
				Usage:     "Delete a document, its points and its stored content",
				ArgsUsage: "DOCUMENT_ID",
				Action:    deleteCommand,
			},
			{
				Name:   "resync",
				Usage:  "Re-embed and re-upsert every completed document",
				Action: resyncCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents to process in each batch",
						Value: 50,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 10,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed store writes",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDatabase(c *cli.Context) (*docflow.Database, *config.AppConfig, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := docflow.NewDatabase(cfg.Storage.Path,
		docflow.WithParserConfig(parser.Config{
			BaseURL: cfg.Parser.BaseURL,
			Timeout: cfg.ParserTimeout(),
		}),
		docflow.WithEmbeddingConfig(&embed.Config{
			Host:  cfg.Embedding.Host,
			Model: cfg.Embedding.Model,
		}),
		docflow.WithQdrantConfig(qdrant.Config{
			URL:       cfg.Qdrant.URL,
			APIKey:    cfg.QdrantAPIKey(),
			Dimension: cfg.Qdrant.Dimension,
			Timeout:   cfg.QdrantTimeout(),
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	return db, cfg, nil
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}

	files := make([]ingestion.File, 0, c.NArg())
	for _, path := range c.Args().Slice() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		name := filepath.Base(path)
		files = append(files, ingestion.File{
			Name:     name,
			MimeType: mime.TypeByExtension(filepath.Ext(name)),
			Data:     data,
		})
	}

	db, cfg, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	collection := cfg.Qdrant.Collection
	if c.String("collection") != "" {
		collection = c.String("collection")
	}

	opts := []ingestion.Option{
		ingestion.WithCollection(collection),
		ingestion.WithMinChunkLength(cfg.Pipeline.MinChunkLength),
		ingestion.WithMonitor(newConsoleMonitor()),
	}
	poolSize := c.Int("pool-size")
	if poolSize == 0 {
		poolSize = cfg.Pipeline.PoolSize
	}
	if poolSize > 0 {
		opts = append(opts, ingestion.WithPoolSize(poolSize))
	}

	pipeline, err := db.NewIngestionPipeline(opts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	ctx := context.Background()
	ids, err := pipeline.Ingest(ctx, files...)
	if err != nil {
		return fmt.Errorf("ingestion rejected: %w", err)
	}

	pipeline.Wait()

	var completed, failed int
	for _, id := range ids {
		doc, err := db.DocumentRepository().GetDocument(ctx, id)
		if err != nil {
			return err
		}
		switch doc.Status {
		case core.DocumentStatusCompleted:
			completed++
		case core.DocumentStatusFailed:
			failed++
		}
	}
	fmt.Printf("Done: %d completed, %d failed\n", completed, failed)
	if failed > 0 {
		return fmt.Errorf("%d document(s) failed; see docflow status", failed)
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	docs, err := db.DocumentRepository().ListDocuments(ctx)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Println("No documents")
		return nil
	}

	for _, doc := range docs {
		fmt.Printf("%s  %-12s %s", doc.Id, doc.Status, doc.Filename)
		if doc.Status == core.DocumentStatusCompleted {
			fmt.Printf("  (chunks=%d entities=%d relations=%d)",
				doc.ChunkCount, doc.EntityCount, doc.RelationCount)
		}
		if doc.Error != "" {
			fmt.Printf("  error: %s", doc.Error)
		}
		fmt.Println()

		task, err := db.TaskRepository().GetTaskByDocument(ctx, doc.Id)
		if err == nil {
			fmt.Printf("    task: stage=%s status=%s progress=%d%% %s\n",
				task.Stage, task.Status, task.Progress, task.Message)
		}
	}
	return nil
}

func reprocessCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one document id is required")
	}
	id := core.DocumentID(c.Args().First())

	db, cfg, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline(
		ingestion.WithCollection(cfg.Qdrant.Collection),
		ingestion.WithMinChunkLength(cfg.Pipeline.MinChunkLength),
		ingestion.WithMonitor(newConsoleMonitor()),
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	ctx := context.Background()
	if err := pipeline.Reprocess(ctx, id); err != nil {
		return err
	}
	pipeline.Wait()

	doc, err := db.DocumentRepository().GetDocument(ctx, id)
	if err != nil {
		return err
	}
	if doc.Status == core.DocumentStatusFailed {
		return fmt.Errorf("document failed again: %s", doc.Error)
	}
	fmt.Printf("Document %s completed\n", id)
	return nil
}

func deleteCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one document id is required")
	}
	id := core.DocumentID(c.Args().First())

	db, cfg, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline(
		ingestion.WithCollection(cfg.Qdrant.Collection),
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	if err := pipeline.Delete(context.Background(), id); err != nil {
		return err
	}
	fmt.Printf("Document %s deleted\n", id)
	return nil
}

func resyncCommand(c *cli.Context) error {
	db, cfg, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	resyncConfig := &resync.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if resyncConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if resyncConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", cfg.Storage.Path)
	fmt.Fprintf(os.Stderr, "Collection: %s\n", cfg.Qdrant.Collection)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", cfg.Embedding.Model)
	fmt.Fprintln(os.Stderr)

	r := db.NewResyncer(cfg.Qdrant.Collection, resyncConfig, os.Stderr)
	if err := r.Run(context.Background()); err != nil {
		return fmt.Errorf("resync failed: %w", err)
	}
	return nil
}

// consoleMonitor prints pipeline progress to stderr.
type consoleMonitor struct {
	mu sync.Mutex
}

func newConsoleMonitor() *consoleMonitor {
	return &consoleMonitor{}
}

func (m *consoleMonitor) DocumentQueued(doc *core.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Fprintf(os.Stderr, "[%s] queued %s\n", doc.Id, doc.Filename)
}

func (m *consoleMonitor) TaskUpdated(task *core.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Fprintf(os.Stderr, "[%s] %s %s %d%% %s\n",
		task.DocumentId, task.Stage, task.Status, task.Progress, task.Message)
}

func (m *consoleMonitor) DocumentCompleted(doc *core.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Fprintf(os.Stderr, "[%s] completed (%d chunks, %d entities)\n",
		doc.Id, doc.ChunkCount, doc.EntityCount)
}

func (m *consoleMonitor) DocumentFailed(doc *core.Document, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Fprintf(os.Stderr, "[%s] failed: %v\n", doc.Id, err)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
