package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/docflow/chunker"
	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/embed"
	"github.com/poiesic/docflow/extract"
	"github.com/poiesic/docflow/parser"
	"github.com/poiesic/docflow/storage"
	"github.com/poiesic/docflow/vectorstore"
)

// DefaultCollection is the vector-store collection documents sync into
// unless WithCollection overrides it.
const DefaultCollection = "knowledge"

// File is one uploaded file submitted for ingestion.
type File struct {
	Name     string
	MimeType string
	Data     []byte
}

// Pipeline orchestrates the ingestion and processing of documents.
// Each document runs as one independent unit of work on a shared pool;
// its stages execute strictly in order within that unit.
type Pipeline struct {
	documents storage.DocumentRepository
	tasks     storage.TaskRepository
	content   storage.ContentStore
	parser    parser.Client
	embedder  embed.Embedder
	store     vectorstore.Store

	chunker    chunker.Chunker
	extractor  extract.Extractor
	collection string

	pool    *ants.Pool
	wg      sync.WaitGroup
	monitor Monitor
	logger  *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent document processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithMonitor sets a progress observer.
// Default is a no-op monitor.
func WithMonitor(monitor Monitor) Option {
	return func(p *Pipeline) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		p.monitor = monitor
		return nil
	}
}

// WithCollection sets the vector-store collection documents sync into.
func WithCollection(name string) Option {
	return func(p *Pipeline) error {
		if name != "" {
			p.collection = name
		}
		return nil
	}
}

// WithMinChunkLength sets the minimum chunk length for the default
// sentence chunker.
func WithMinChunkLength(length int) Option {
	return func(p *Pipeline) error {
		p.chunker = chunker.NewSentenceChunker(length)
		return nil
	}
}

// WithExtractor replaces the default heuristic entity extractor.
func WithExtractor(extractor extract.Extractor) Option {
	return func(p *Pipeline) error {
		if extractor != nil {
			p.extractor = extractor
		}
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	documents storage.DocumentRepository,
	tasks storage.TaskRepository,
	content storage.ContentStore,
	parserClient parser.Client,
	embedder embed.Embedder,
	store vectorstore.Store,
	opts ...Option,
) (*Pipeline, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if tasks == nil {
		return nil, ErrTaskRepositoryRequired
	}
	if content == nil {
		return nil, ErrContentStoreRequired
	}
	if parserClient == nil {
		return nil, ErrParserRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if store == nil {
		return nil, ErrVectorStoreRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		documents:  documents,
		tasks:      tasks,
		content:    content,
		parser:     parserClient,
		embedder:   embedder,
		store:      store,
		chunker:    chunker.NewSentenceChunker(chunker.DefaultMinChunkLength),
		extractor:  extract.NewHeuristicExtractor(),
		collection: DefaultCollection,
		pool:       pool,
		monitor:    &noopMonitor{},
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest validates and registers a batch of files, then processes each one
// asynchronously. Validation is all-or-nothing: if any file has an
// unsupported extension, no document is created for any file in the batch.
// Progress is observed via the Monitor and the task records; errors during
// async processing are recorded on the document, not returned here.
func (p *Pipeline) Ingest(ctx context.Context, files ...File) ([]core.DocumentID, error) {
	for _, f := range files {
		if err := core.ValidateFilename(f.Name); err != nil {
			return nil, err
		}
	}

	ids := make([]core.DocumentID, 0, len(files))
	for _, f := range files {
		doc := &core.Document{
			Id:       core.NewDocumentID(),
			Filename: f.Name,
			FileType: core.FileTypeFromName(f.Name),
			MimeType: f.MimeType,
			FileSize: int64(len(f.Data)),
			Status:   core.DocumentStatusPending,
		}

		if _, err := p.documents.AddDocument(ctx, doc); err != nil {
			return ids, err
		}
		if err := p.content.PutFile(ctx, doc.Id, f.Data); err != nil {
			return ids, err
		}

		task := newTask(doc.Id, core.StageExtract, core.TaskStatusPending, 0, "queued")
		if _, err := p.tasks.PutTask(ctx, task); err != nil {
			return ids, err
		}

		p.monitor.DocumentQueued(doc)
		p.logger.Info("document queued", "id", doc.Id, "filename", doc.Filename)

		ids = append(ids, doc.Id)
		p.submit(doc.Id)
	}

	return ids, nil
}

// Reprocess restarts a failed document from the beginning, using the
// original stored file bytes. The previous task record is superseded by a
// fresh one. Only failed documents can be reprocessed.
func (p *Pipeline) Reprocess(ctx context.Context, id core.DocumentID) error {
	doc, err := p.documents.GetDocument(ctx, id)
	if err != nil {
		return err
	}
	if doc.Status != core.DocumentStatusFailed {
		return fmt.Errorf("%w: document %s is %s", ErrDocumentNotFailed, id, doc.Status)
	}

	doc.Status = core.DocumentStatusPending
	doc.Error = ""
	doc.ProcessedAt = time.Time{}
	// Counts describe a successful run only; the rerun sets them again on
	// completion. RawTextRef stays so a failed rerun can still be cleaned up.
	doc.ChunkCount = 0
	doc.EntityCount = 0
	doc.RelationCount = 0
	if _, err := p.documents.UpdateDocument(ctx, doc); err != nil {
		return err
	}

	task := newTask(doc.Id, core.StageExtract, core.TaskStatusPending, 0, "queued for reprocessing")
	if _, err := p.tasks.PutTask(ctx, task); err != nil {
		return err
	}

	p.monitor.DocumentQueued(doc)
	p.logger.Info("document queued for reprocessing", "id", doc.Id)

	p.submit(doc.Id)
	return nil
}

// Delete removes a document and everything it owns: its vector-store
// points, its parsed text, its stored file, its task and the document
// record itself. Parsed text is kept if another document with identical
// content still references it. The collection is never deleted as a side
// effect. Documents still being processed cannot be deleted.
func (p *Pipeline) Delete(ctx context.Context, id core.DocumentID) error {
	doc, err := p.documents.GetDocument(ctx, id)
	if err != nil {
		return err
	}
	if doc.Status == core.DocumentStatusProcessing {
		return fmt.Errorf("%w: document %s", ErrDocumentProcessing, id)
	}

	for _, pointID := range p.pointIDs(ctx, doc) {
		if err := p.store.DeletePoint(ctx, p.collection, pointID); err != nil {
			return err
		}
	}

	if doc.RawTextRef != "" {
		shared, err := p.rawTextShared(ctx, doc.Id, doc.RawTextRef)
		if err != nil {
			return err
		}
		if !shared {
			if err := p.content.DeleteRawText(ctx, doc.RawTextRef); err != nil {
				return err
			}
		}
	}
	if err := p.content.DeleteFile(ctx, id); err != nil {
		return err
	}
	if err := p.tasks.DeleteTaskByDocument(ctx, id); err != nil {
		return err
	}
	if err := p.documents.DeleteDocument(ctx, id); err != nil {
		return err
	}

	p.logger.Info("document deleted", "id", id)
	return nil
}

// rawTextShared reports whether another document still references the same
// raw-text blob. Parsed text is stored content-addressed, so documents with
// identical content share one blob; it may only go with its last owner.
func (p *Pipeline) rawTextShared(ctx context.Context, id core.DocumentID, ref string) (bool, error) {
	docs, err := p.documents.ListDocuments(ctx)
	if err != nil {
		return false, err
	}
	for _, other := range docs {
		if other.Id != id && other.RawTextRef == ref {
			return true, nil
		}
	}
	return false, nil
}

// pointIDs derives the vector-store point ids a document may own. ChunkCount
// is authoritative for completed documents; for failed ones the raw text is
// re-chunked so partially upserted points from the failed run are also found.
func (p *Pipeline) pointIDs(ctx context.Context, doc *core.Document) []string {
	count := doc.ChunkCount
	if count == 0 && doc.RawTextRef != "" {
		if text, err := p.content.GetRawText(ctx, doc.RawTextRef); err == nil {
			count = len(p.chunker.Chunk(doc.Id, text))
		}
	}

	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		chunk := core.Chunk{DocumentId: doc.Id, Index: i}
		ids = append(ids, chunk.PointID())
	}
	return ids
}

// Wait blocks until all in-flight documents reach a terminal state.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

// Release releases the worker pool. In-flight documents are allowed to
// finish; call Wait first to observe their terminal states. The pipeline
// should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

func (p *Pipeline) submit(id core.DocumentID) {
	p.wg.Add(1)
	err := p.pool.Submit(func() {
		defer p.wg.Done()
		p.run(context.Background(), id)
	})
	if err != nil {
		p.wg.Done()
		p.logger.Error("error submitting document", "id", id, "err", err)
	}
}

func newTask(docID core.DocumentID, stage core.Stage, status core.TaskStatus, progress int, message string) *core.Task {
	now := time.Now().UTC()
	return &core.Task{
		Id:         core.NewTaskID(),
		DocumentId: docID,
		Stage:      stage,
		Status:     status,
		Progress:   progress,
		Message:    message,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
