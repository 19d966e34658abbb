package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/extract"
	"github.com/poiesic/docflow/vectorstore"
)

// run drives one document through the stages: parse, chunk, sync to the
// vector store, extract entities. It is the single writer for the document
// and its task. Any panic is caught at the document boundary so one
// document's failure never takes down its siblings.
func (p *Pipeline) run(ctx context.Context, id core.DocumentID) {
	doc, err := p.documents.GetDocument(ctx, id)
	if err != nil {
		p.logger.Error("error loading document", "id", id, "err", err)
		return
	}
	task, err := p.tasks.GetTaskByDocument(ctx, id)
	if err != nil {
		p.logger.Error("error loading task", "id", id, "err", err)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			p.fail(ctx, doc, task, fmt.Errorf("unexpected error: %v", r))
		}
	}()

	doc.Status = core.DocumentStatusProcessing
	if _, err := p.documents.UpdateDocument(ctx, doc); err != nil {
		p.logger.Error("error updating document", "id", id, "err", err)
		return
	}

	// Stage 1: parse the raw file into plain text.
	p.advance(ctx, task, core.StageExtract, core.TaskStatusRunning, 0, "parsing "+doc.Filename)

	data, err := p.content.GetFile(ctx, id)
	if err != nil {
		p.fail(ctx, doc, task, err)
		return
	}
	result, err := p.parser.Parse(ctx, data, doc.Filename, doc.MimeType)
	if err != nil {
		p.fail(ctx, doc, task, err)
		return
	}

	ref, err := p.content.PutRawText(ctx, result.Content)
	if err != nil {
		p.fail(ctx, doc, task, err)
		return
	}
	doc.RawTextRef = ref
	if _, err := p.documents.UpdateDocument(ctx, doc); err != nil {
		p.fail(ctx, doc, task, err)
		return
	}

	// Stage 2: split the text into chunks.
	p.advance(ctx, task, core.StageChunk, core.TaskStatusRunning, 30, "chunking text")

	chunks := p.chunker.Chunk(id, result.Content)
	if len(chunks) == 0 {
		p.fail(ctx, doc, task, core.ErrEmptyContent)
		return
	}

	// Stage 3: vectorize and sync one point per chunk, in index order.
	// Entities are extracted here as well because they double as point tags.
	p.advance(ctx, task, core.StageEmbed, core.TaskStatusRunning, 60, "syncing chunks")

	entities, err := p.extractor.Extract(ctx, result.Content)
	if err != nil {
		p.fail(ctx, doc, task, err)
		return
	}

	if err := p.store.EnsureCollection(ctx, p.collection); err != nil {
		p.fail(ctx, doc, task, err)
		return
	}

	now := time.Now().UTC()
	lo, hi := core.StageEmbed.Band()
	for i := range chunks {
		vector, err := p.embedder.EmbedText(ctx, chunks[i].Text)
		if err != nil {
			p.fail(ctx, doc, task, err)
			return
		}

		point := &vectorstore.Point{
			ID:     chunks[i].PointID(),
			Vector: vector,
			Payload: vectorstore.Payload{
				Title:     doc.Filename,
				Content:   chunks[i].Text,
				Category:  "document",
				Tags:      entities,
				Source:    string(doc.Id),
				CreatedAt: now,
				UpdatedAt: now,
			},
		}
		if err := p.store.UpsertPoint(ctx, p.collection, point); err != nil {
			p.fail(ctx, doc, task, err)
			return
		}

		progress := lo + (i+1)*(hi-lo)/len(chunks)
		p.advance(ctx, task, core.StageEmbed, core.TaskStatusRunning, progress,
			fmt.Sprintf("synced chunk %d/%d", i+1, len(chunks)))
	}

	// Stage 4: record entity counts and finalize.
	p.advance(ctx, task, core.StageEntity, core.TaskStatusRunning, 90, "extracting entities")

	doc.ChunkCount = len(chunks)
	doc.EntityCount = len(entities)
	doc.RelationCount = extract.RelationCount(len(entities))
	doc.Status = core.DocumentStatusCompleted
	doc.Error = ""
	doc.ProcessedAt = time.Now().UTC()
	if _, err := p.documents.UpdateDocument(ctx, doc); err != nil {
		p.fail(ctx, doc, task, err)
		return
	}

	p.advance(ctx, task, core.StageEntity, core.TaskStatusCompleted, 100, "completed")
	p.monitor.DocumentCompleted(doc)
	p.logger.Info("document completed", "id", doc.Id,
		"chunks", doc.ChunkCount, "entities", doc.EntityCount)
}

// advance moves the task to the given stage, status and progress and
// persists it. Observers see a snapshot, not the live record.
func (p *Pipeline) advance(ctx context.Context, task *core.Task, stage core.Stage, status core.TaskStatus, progress int, message string) {
	task.Stage = stage
	task.Status = status
	task.Progress = progress
	task.Message = message
	if _, err := p.tasks.PutTask(ctx, task); err != nil {
		p.logger.Error("error updating task", "document", task.DocumentId, "err", err)
	}

	snapshot := *task
	p.monitor.TaskUpdated(&snapshot)
}

// fail marks the document and its task as failed with the error's message.
// The task's current stage identifies where the run stopped. Later stages
// do not run.
func (p *Pipeline) fail(ctx context.Context, doc *core.Document, task *core.Task, stageErr error) {
	doc.Status = core.DocumentStatusFailed
	doc.Error = stageErr.Error()
	doc.ProcessedAt = time.Now().UTC()
	if _, err := p.documents.UpdateDocument(ctx, doc); err != nil {
		p.logger.Error("error recording document failure", "id", doc.Id, "err", err)
	}

	task.Status = core.TaskStatusFailed
	task.Message = stageErr.Error()
	if _, err := p.tasks.PutTask(ctx, task); err != nil {
		p.logger.Error("error recording task failure", "document", task.DocumentId, "err", err)
	}

	snapshot := *task
	p.monitor.TaskUpdated(&snapshot)
	p.monitor.DocumentFailed(doc, stageErr)
	p.logger.Error("document failed", "id", doc.Id, "stage", task.Stage, "err", stageErr)
}
