package core

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// DocumentID is a unique identifier for a document, generated at intake.
type DocumentID string

// TaskID is a unique identifier for a processing task.
type TaskID string

// NewDocumentID generates a fresh document identifier.
func NewDocumentID() DocumentID {
	return DocumentID(uuid.NewString())
}

// NewTaskID generates a fresh task identifier.
func NewTaskID() TaskID {
	return TaskID(uuid.NewString())
}

// RefFromContent generates a deterministic raw-text reference from text content
// using BLAKE2b hashing. Identical content always produces the same reference,
// so re-parsing a document on retry overwrites rather than duplicates its text.
func RefFromContent(text string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// DocumentStatus is the lifecycle state of a document.
type DocumentStatus string

const (
	DocumentStatusPending    DocumentStatus = "pending"
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusCompleted  DocumentStatus = "completed"
	DocumentStatusFailed     DocumentStatus = "failed"
)

// TaskStatus is the state of a single processing task.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// Stage identifies one step of the ingestion pipeline.
type Stage string

const (
	// StageExtract covers parsing the raw file into plain text.
	StageExtract Stage = "extract"
	// StageChunk covers splitting the text into chunks.
	StageChunk Stage = "chunk"
	// StageEmbed covers vectorizing chunks and syncing them to the vector store.
	StageEmbed Stage = "embed"
	// StageEntity covers entity extraction over the full text.
	StageEntity Stage = "entity"
)

// Band returns the progress range [lo, hi) a stage occupies within a run.
// Progress within a single run is monotonic; 100 is reached only on completion.
func (s Stage) Band() (lo, hi int) {
	switch s {
	case StageExtract:
		return 0, 30
	case StageChunk:
		return 30, 60
	case StageEmbed:
		return 60, 90
	case StageEntity:
		return 90, 100
	default:
		return 0, 0
	}
}

// Document represents one uploaded file moving through the ingestion pipeline.
// It is created at intake with status pending and mutated only by the pipeline
// as stages complete. Observers read it, they never write it.
type Document struct {
	Id       DocumentID
	Filename string
	FileType string // extension-derived, lowercase, without the dot
	MimeType string
	FileSize int64
	Status   DocumentStatus

	// RawTextRef is the content-hash key of the parsed plain text,
	// owned by the pipeline until ingestion completes or fails.
	RawTextRef string

	// Derived counts, set only on successful completion.
	ChunkCount    int
	EntityCount   int
	RelationCount int

	// Error is present only when Status is failed.
	Error string

	CreatedAt   time.Time
	ProcessedAt time.Time // zero until the document reaches a terminal state
}

// Terminal reports whether the document reached a final state.
func (d *Document) Terminal() bool {
	return d.Status == DocumentStatusCompleted || d.Status == DocumentStatusFailed
}

// Chunk is a bounded contiguous span of a document's text, the unit stored
// and searched in the vector store.
type Chunk struct {
	DocumentId DocumentID
	Index      int // position within the document, stable ordering
	Text       string
}

// PointID derives the vector-store point key for this chunk. The key is a pure
// function of document id and chunk index, which makes upserts idempotent
// under retry.
func (c *Chunk) PointID() string {
	return fmt.Sprintf("%s-chunk-%d", c.DocumentId, c.Index)
}

// Task is the mutable progress record tracking one document's journey through
// the pipeline stages. Exactly one task is active per document; reprocessing
// supersedes it with a fresh one. Only the pipeline goroutine owning the
// document writes to it.
type Task struct {
	Id         TaskID
	DocumentId DocumentID
	Stage      Stage
	Status     TaskStatus
	Progress   int // 0-100, non-decreasing while running
	Message    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
