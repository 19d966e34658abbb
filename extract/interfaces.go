// Package extract provides entity extraction over parsed document text.
//
// The production implementation, HeuristicExtractor, is deliberately
// rule-based: a fixed ordered set of bracket, quote and keyword-field
// patterns. It is a documented approximation of a real NLP pipeline,
// not a replacement for one.
package extract

import "context"

// Extractor derives a set of coarse named entities from raw text.
// Implementations must be thread-safe and deterministic: identical input
// yields an identical entity set.
type Extractor interface {
	// Extract returns the deduplicated entities found in text, in a stable
	// (sorted) order. Returns an empty slice if no entities are found.
	Extract(ctx context.Context, text string) ([]string, error)
}

// RelationCount estimates the number of relations among entities as
// floor(entityCount * 0.5). This is a placeholder heuristic pending a real
// co-occurrence model; do not mistake it for relation extraction.
func RelationCount(entityCount int) int {
	return entityCount / 2
}
