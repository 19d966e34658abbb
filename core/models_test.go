package core

import (
	"testing"
)

func TestRefFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "same content produces same ref", content: "test content"},
		{name: "empty string", content: ""},
		{name: "cjk content", content: "设备异常。检测完成。"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref1 := RefFromContent(tt.content)
			ref2 := RefFromContent(tt.content)

			if ref1 != ref2 {
				t.Errorf("RefFromContent() produced different refs for same content: %s vs %s", ref1, ref2)
			}
			if len(ref1) != 32 {
				t.Errorf("RefFromContent() = %q, want 32 hex characters", ref1)
			}
		})
	}
}

func TestRefFromContent_Different(t *testing.T) {
	if RefFromContent("content1") == RefFromContent("content2") {
		t.Error("RefFromContent() produced same ref for different content")
	}
}

func TestNewDocumentID_Unique(t *testing.T) {
	if NewDocumentID() == NewDocumentID() {
		t.Error("NewDocumentID() produced duplicate ids")
	}
}

func TestChunk_PointID(t *testing.T) {
	chunk := &Chunk{DocumentId: "doc-1", Index: 3, Text: "some text"}

	got := chunk.PointID()
	want := "doc-1-chunk-3"
	if got != want {
		t.Errorf("PointID() = %q, want %q", got, want)
	}

	// Deterministic: same document and index, same key.
	again := (&Chunk{DocumentId: "doc-1", Index: 3, Text: "different text"}).PointID()
	if again != want {
		t.Errorf("PointID() not stable across text changes: %q vs %q", again, want)
	}
}

func TestStage_Band(t *testing.T) {
	tests := []struct {
		stage  Stage
		lo, hi int
	}{
		{StageExtract, 0, 30},
		{StageChunk, 30, 60},
		{StageEmbed, 60, 90},
		{StageEntity, 90, 100},
	}

	prevHi := 0
	for _, tt := range tests {
		lo, hi := tt.stage.Band()
		if lo != tt.lo || hi != tt.hi {
			t.Errorf("Band(%s) = (%d, %d), want (%d, %d)", tt.stage, lo, hi, tt.lo, tt.hi)
		}
		if lo != prevHi {
			t.Errorf("Band(%s) starts at %d, want contiguous with previous stage end %d", tt.stage, lo, prevHi)
		}
		prevHi = hi
	}
	if prevHi != 100 {
		t.Errorf("final stage ends at %d, want 100", prevHi)
	}
}

func TestDocument_Terminal(t *testing.T) {
	tests := []struct {
		status DocumentStatus
		want   bool
	}{
		{DocumentStatusPending, false},
		{DocumentStatusProcessing, false},
		{DocumentStatusCompleted, true},
		{DocumentStatusFailed, true},
	}

	for _, tt := range tests {
		doc := &Document{Status: tt.status}
		if doc.Terminal() != tt.want {
			t.Errorf("Terminal() with status %s = %v, want %v", tt.status, doc.Terminal(), tt.want)
		}
	}
}
