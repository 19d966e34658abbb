// Package mock provides test doubles for the parser package.
package mock

import (
	"context"
	"strings"

	"github.com/poiesic/docflow/parser"
)

// MockParser is a test double for parser.Client.
// It allows custom behavior injection via function fields.
type MockParser struct {
	// ParseFunc is called by Parse if set.
	// If nil, the file bytes are returned as UTF-8 text.
	ParseFunc func(ctx context.Context, data []byte, filename, mimeType string) (*parser.Result, error)

	callCount int
}

// NewMockParser creates a mock parser with default passthrough behavior.
func NewMockParser() *MockParser {
	return &MockParser{}
}

// Parse returns the file bytes as text with a naive word count.
func (m *MockParser) Parse(ctx context.Context, data []byte, filename, mimeType string) (*parser.Result, error) {
	m.callCount++

	if m.ParseFunc != nil {
		return m.ParseFunc(ctx, data, filename, mimeType)
	}

	content := string(data)
	return &parser.Result{
		Content:   content,
		WordCount: len(strings.Fields(content)),
	}, nil
}

// CallCount returns the number of times Parse was called.
func (m *MockParser) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom function.
func (m *MockParser) Reset() {
	m.callCount = 0
	m.ParseFunc = nil
}
