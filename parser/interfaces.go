// Package parser defines the contract with the external document-parsing
// service, which converts raw files (PDF, Office, images via OCR) into plain
// text. Parsing is an external collaborator: failures are reported to the
// caller, never retried here.
package parser

import "context"

// Result is the successful output of a parse call.
type Result struct {
	// Content is the extracted plain text.
	Content string

	// WordCount is the parser's word count for the extracted text.
	WordCount int
}

// Client converts one raw file into plain text plus basic metadata.
// Implementations must be thread-safe; the pipeline calls Parse from
// concurrent per-document workers.
type Client interface {
	// Parse sends the file to the parsing service. A service-reported
	// failure is returned as a *ParseError; transport failures are
	// returned as-is.
	Parse(ctx context.Context, data []byte, filename, mimeType string) (*Result, error)
}

// ParseError is a failure reported by the parsing service itself,
// as opposed to a transport error reaching it.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parse failed: " + e.Reason
}
