package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristicExtractor_FullWidthBrackets(t *testing.T) {
	e := NewHeuristicExtractor()

	entities, err := e.Extract(context.Background(), "巡检记录：【轴承】温度偏高。")
	require.NoError(t, err)

	assert.Equal(t, []string{"轴承"}, entities)
	assert.Equal(t, 0, RelationCount(len(entities)))
}

func TestHeuristicExtractor_MultiplePatterns(t *testing.T) {
	e := NewHeuristicExtractor()

	text := `【电机】故障，参照《维修手册》处理。设备: X-2000，model: TB-42，操作员说 "vibration warning"。`
	entities, err := e.Extract(context.Background(), text)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"电机", "维修手册", "X-2000", "TB-42", "vibration warning"}, entities)
	assert.Equal(t, 2, RelationCount(len(entities)))
}

func TestHeuristicExtractor_Deduplicates(t *testing.T) {
	e := NewHeuristicExtractor()

	entities, err := e.Extract(context.Background(), "【轴承】异常。复查【轴承】正常。")
	require.NoError(t, err)

	assert.Equal(t, []string{"轴承"}, entities)
}

func TestHeuristicExtractor_CasePreserving(t *testing.T) {
	e := NewHeuristicExtractor()

	entities, err := e.Extract(context.Background(), `model: MixedCase-42`)
	require.NoError(t, err)

	assert.Equal(t, []string{"MixedCase-42"}, entities)
}

func TestHeuristicExtractor_DiscardsOverlongCaptures(t *testing.T) {
	e := NewHeuristicExtractor()

	long := strings.Repeat("长", maxEntityLength+1)
	entities, err := e.Extract(context.Background(), "【"+long+"】【短名】")
	require.NoError(t, err)

	assert.Equal(t, []string{"短名"}, entities)
}

func TestHeuristicExtractor_Deterministic(t *testing.T) {
	e := NewHeuristicExtractor()
	text := `【电机】《手册》设备: A-1 "alpha" “beta” model: M-9`

	first, err := e.Extract(context.Background(), text)
	require.NoError(t, err)
	second, err := e.Extract(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, RelationCount(len(first)), RelationCount(len(second)))
}

func TestHeuristicExtractor_NoMatches(t *testing.T) {
	e := NewHeuristicExtractor()

	entities, err := e.Extract(context.Background(), "plain text with nothing notable")
	require.NoError(t, err)

	assert.Empty(t, entities)
	assert.Equal(t, 0, RelationCount(0))
}

func TestRelationCount_Floor(t *testing.T) {
	tests := []struct {
		entities int
		want     int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 1},
		{7, 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RelationCount(tt.entities), "entities=%d", tt.entities)
	}
}
