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


package core

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SupportedFileTypes is the intake allow-list. Files with any other extension
// are rejected before any pipeline stage runs. Image types are included
// because the parser service is OCR-capable.
var SupportedFileTypes = []string{
	"txt", "md", "json", "csv",
	"pdf", "doc", "docx", "xls", "xlsx",
	"png", "jpg", "jpeg", "bmp", "webp",
}

// FileTypeFromName derives the normalized file type from a filename:
// the extension, lowercased, without the leading dot.
func FileTypeFromName(filename string) string {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	return strings.ToLower(ext)
}

// ValidateFilename checks a filename against the intake allow-list.
// The returned error names the unsupported extension so it can be surfaced
// to the uploader as-is.
func ValidateFilename(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyFilename)
	}

	fileType := FileTypeFromName(filename)
	for _, supported := range SupportedFileTypes {
		if fileType == supported {
			return nil
		}
	}

	if fileType == "" {
		return fmt.Errorf("%w: %q has no extension", ErrUnsupportedFileType, filename)
	}
	return fmt.Errorf("%w: .%s", ErrUnsupportedFileType, fileType)
}

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//   - Filename must not be empty and its extension must be supported
//   - Status must be a known value
//
// NOT validated (populated by the pipeline):
//   - RawTextRef, counts and ProcessedAt (empty until stages complete)
//   - Error (set only on failure)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Id == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidDocument)
	}

	if err := ValidateFilename(doc.Filename); err != nil {
		return err
	}

	if err := ValidateDocumentStatus(doc.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return nil
}

// ValidateTask validates a Task according to domain rules.
func ValidateTask(task *Task) error {
	if task == nil {
		return fmt.Errorf("%w: task is nil", ErrInvalidTask)
	}

	if task.Id == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidTask)
	}

	if task.DocumentId == "" {
		return fmt.Errorf("%w: missing document id", ErrInvalidTask)
	}

	if err := ValidateStage(task.Stage); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTask, err)
	}

	if err := ValidateTaskStatus(task.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTask, err)
	}

	if task.Progress < 0 || task.Progress > 100 {
		return fmt.Errorf("%w: %w (%d)", ErrInvalidTask, ErrInvalidProgress, task.Progress)
	}

	return nil
}

// ValidateDocumentStatus validates that a DocumentStatus has a known value.
func ValidateDocumentStatus(status DocumentStatus) error {
	switch status {
	case DocumentStatusPending, DocumentStatusProcessing, DocumentStatusCompleted, DocumentStatusFailed:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
}

// ValidateTaskStatus validates that a TaskStatus has a known value.
func ValidateTaskStatus(status TaskStatus) error {
	switch status {
	case TaskStatusPending, TaskStatusRunning, TaskStatusCompleted, TaskStatusFailed:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
}

// ValidateStage validates that a Stage has a known value.
func ValidateStage(stage Stage) error {
	switch stage {
	case StageExtract, StageChunk, StageEmbed, StageEntity:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidStage, stage)
}
