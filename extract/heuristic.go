package extract

import (
	"context"
	"regexp"
	"slices"
	"unicode/utf8"
)

// maxEntityLength caps entity length in characters. Longer matches are
// discarded as accidental whole-paragraph captures.
const maxEntityLength = 50

// entityPatterns is the fixed ordered rule set. Each pattern's first capture
// group is the entity text.
var entityPatterns = []*regexp.Regexp{
	// Full-width bracket spans: 【轴承】, 《操作手册》
	regexp.MustCompile(`【([^】]+)】`),
	regexp.MustCompile(`《([^》]+)》`),
	// Quoted spans, full-width and ASCII
	regexp.MustCompile(`“([^”]+)”`),
	regexp.MustCompile(`"([^"]+)"`),
	// Keyword-field spans: 设备: X-2000, model: TB-42
	regexp.MustCompile(`(?:设备|装置|device)[:：]\s*([^\s,，。;；]+)`),
	regexp.MustCompile(`(?:型号|model)[:：]\s*([^\s,，。;；]+)`),
}

// HeuristicExtractor implements Extractor with fixed pattern rules.
// It never fails and needs no external services.
type HeuristicExtractor struct{}

var _ Extractor = (*HeuristicExtractor)(nil)

// NewHeuristicExtractor creates the rule-based extractor.
func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{}
}

// Extract applies each pattern in order, collecting matches into a set.
// Matches are case-preserving, deduplicated, and capped at maxEntityLength
// characters. The result is sorted for determinism.
func (e *HeuristicExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	seen := make(map[string]bool)

	for _, pattern := range entityPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			entity := match[1]
			if entity == "" {
				continue
			}
			if utf8.RuneCountInString(entity) > maxEntityLength {
				continue
			}
			seen[entity] = true
		}
	}

	entities := make([]string, 0, len(seen))
	for entity := range seen {
		entities = append(entities, entity)
	}
	slices.Sort(entities)

	return entities, nil
}
