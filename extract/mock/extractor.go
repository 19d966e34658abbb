// Package mock provides test doubles for the extract package.
package mock

import (
	"context"
	"strings"
)

// MockExtractor is a test double for extract.Extractor.
// It allows custom behavior injection via function fields.
type MockExtractor struct {
	// ExtractFunc is called by Extract if set.
	// If nil, uses default simple word extraction.
	ExtractFunc func(ctx context.Context, text string) ([]string, error)

	callCount int
}

// NewMockExtractor creates a mock extractor with default behavior.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

// Extract returns the first few words of the text as entities.
func (m *MockExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	m.callCount++

	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, text)
	}

	words := strings.Fields(text)
	if len(words) > 3 {
		words = words[:3]
	}
	return words, nil
}

// CallCount returns the number of times Extract was called.
func (m *MockExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom function.
func (m *MockExtractor) Reset() {
	m.callCount = 0
	m.ExtractFunc = nil
}
