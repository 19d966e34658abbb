package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantErr  error
	}{
		{name: "plain text", filename: "report.txt"},
		{name: "markdown", filename: "notes.md"},
		{name: "pdf", filename: "manual.pdf"},
		{name: "office document", filename: "manual.docx"},
		{name: "image with ocr", filename: "scan.jpeg"},
		{name: "uppercase extension", filename: "README.TXT"},
		{name: "executable rejected", filename: "setup.exe", wantErr: ErrUnsupportedFileType},
		{name: "archive rejected", filename: "data.zip", wantErr: ErrUnsupportedFileType},
		{name: "no extension", filename: "Makefile", wantErr: ErrUnsupportedFileType},
		{name: "empty filename", filename: "", wantErr: ErrEmptyFilename},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.filename)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateFilename(%q) = %v, want nil", tt.filename, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateFilename(%q) = %v, want %v", tt.filename, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFilename_NamesExtension(t *testing.T) {
	err := ValidateFilename("setup.exe")
	if err == nil || !strings.Contains(err.Error(), ".exe") {
		t.Errorf("ValidateFilename error %v does not name the offending extension", err)
	}
}

func TestValidateDocument(t *testing.T) {
	valid := func() *Document {
		return &Document{
			Id:        NewDocumentID(),
			Filename:  "report.txt",
			FileType:  "txt",
			Status:    DocumentStatusPending,
			CreatedAt: time.Now().UTC(),
		}
	}

	t.Run("valid document", func(t *testing.T) {
		if err := ValidateDocument(valid()); err != nil {
			t.Errorf("ValidateDocument() = %v, want nil", err)
		}
	})

	t.Run("nil document", func(t *testing.T) {
		if err := ValidateDocument(nil); !errors.Is(err, ErrInvalidDocument) {
			t.Errorf("ValidateDocument(nil) = %v, want ErrInvalidDocument", err)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		doc := valid()
		doc.Id = ""
		if err := ValidateDocument(doc); !errors.Is(err, ErrInvalidDocument) {
			t.Errorf("ValidateDocument() = %v, want ErrInvalidDocument", err)
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		doc := valid()
		doc.Status = "queued"
		if err := ValidateDocument(doc); !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("ValidateDocument() = %v, want ErrInvalidStatus", err)
		}
	})
}

func TestValidateTask(t *testing.T) {
	valid := func() *Task {
		return &Task{
			Id:         NewTaskID(),
			DocumentId: NewDocumentID(),
			Stage:      StageExtract,
			Status:     TaskStatusRunning,
			Progress:   10,
		}
	}

	t.Run("valid task", func(t *testing.T) {
		if err := ValidateTask(valid()); err != nil {
			t.Errorf("ValidateTask() = %v, want nil", err)
		}
	})

	t.Run("unknown stage", func(t *testing.T) {
		task := valid()
		task.Stage = "upload"
		if err := ValidateTask(task); !errors.Is(err, ErrInvalidStage) {
			t.Errorf("ValidateTask() = %v, want ErrInvalidStage", err)
		}
	})

	t.Run("progress out of range", func(t *testing.T) {
		task := valid()
		task.Progress = 101
		if err := ValidateTask(task); !errors.Is(err, ErrInvalidProgress) {
			t.Errorf("ValidateTask() = %v, want ErrInvalidProgress", err)
		}
	})

	t.Run("missing document id", func(t *testing.T) {
		task := valid()
		task.DocumentId = ""
		if err := ValidateTask(task); !errors.Is(err, ErrInvalidTask) {
			t.Errorf("ValidateTask() = %v, want ErrInvalidTask", err)
		}
	})
}

func TestFileTypeFromName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"report.PDF", "pdf"},
		{"archive.tar.gz", "gz"},
		{"noext", ""},
		{"设备手册.docx", "docx"},
	}

	for _, tt := range tests {
		if got := FileTypeFromName(tt.filename); got != tt.want {
			t.Errorf("FileTypeFromName(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
