// Package chunker splits parsed document text into bounded semantic chunks,
// the unit stored and searched in the vector store.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/poiesic/docflow/core"
)

// DefaultMinChunkLength is the minimum viable chunk length in characters,
// measured after trimming whitespace.
const DefaultMinChunkLength = 10

// sentence terminators, full-width and ASCII. A newline also ends a sentence.
var terminators = map[rune]bool{
	'。': true, '！': true, '？': true,
	'.': true, '!': true, '?': true,
	'\n': true,
}

// Chunker splits plain text into an ordered sequence of chunks.
type Chunker interface {
	// Chunk splits text into chunks for the given document. Returns zero
	// chunks for empty or all-whitespace input; the caller treats that as
	// an error, not a legitimate empty result.
	Chunk(docID core.DocumentID, text string) []core.Chunk
}

// SentenceChunker splits text on sentence-ending punctuation, preserving each
// terminator with its sentence. Fragments shorter than the minimum length are
// discarded; when nothing survives, the whole text becomes a single chunk.
type SentenceChunker struct {
	minLength int
}

var _ Chunker = (*SentenceChunker)(nil)

// NewSentenceChunker creates a chunker with the given minimum chunk length.
// A non-positive minLength falls back to DefaultMinChunkLength.
func NewSentenceChunker(minLength int) *SentenceChunker {
	if minLength <= 0 {
		minLength = DefaultMinChunkLength
	}
	return &SentenceChunker{minLength: minLength}
}

// Chunk implements Chunker. Indices are assigned in text order and are stable
// across runs, which keeps vector-store point keys deterministic.
func (c *SentenceChunker) Chunk(docID core.DocumentID, text string) []core.Chunk {
	var chunks []core.Chunk
	index := 0

	for _, sentence := range splitSentences(text) {
		trimmed := strings.TrimSpace(sentence)
		if trimmed == "" {
			continue
		}
		if utf8.RuneCountInString(trimmed) < c.minLength {
			continue
		}
		chunks = append(chunks, core.Chunk{DocumentId: docID, Index: index, Text: trimmed})
		index++
	}

	if len(chunks) == 0 {
		// No fragment survived. A document whose entire content is shorter
		// than the threshold still becomes one chunk.
		trimmed := strings.TrimSpace(text)
		if trimmed != "" {
			chunks = append(chunks, core.Chunk{DocumentId: docID, Index: 0, Text: trimmed})
		}
	}

	return chunks
}

// splitSentences cuts text after every sentence terminator, keeping the
// terminator with its sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if terminators[r] {
			sentences = append(sentences, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}

	return sentences
}
