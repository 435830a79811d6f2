package suggest

import (
	"fmt"
	"testing"

	"github.com/futig/context-engine/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func suggestion(id string, score float64) entity.Suggestion {
	return entity.Suggestion{
		ID:             id,
		SourceType:     entity.SourceTypeFile,
		Title:          id + ".md",
		SourcePath:     "/docs/" + id + ".md",
		RelevanceScore: score,
	}
}

func ids(list []entity.Suggestion) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.ID)
	}
	return out
}

func TestMergeRankOrdersByScore(t *testing.T) {
	tuning := DefaultTuning()
	base := map[string]bool{"a": true, "b": true}

	ranked := MergeRank([]entity.Suggestion{
		suggestion("b", 0.40),
		suggestion("a", 0.81),
	}, base, tuning)

	assert.Equal(t, []string{"a", "b"}, ids(ranked))
}

func TestMergeRankDedupsKeepingHigherScore(t *testing.T) {
	tuning := DefaultTuning()
	base := map[string]bool{"a": true}

	ranked := MergeRank([]entity.Suggestion{
		suggestion("a", 0.40),
		suggestion("a", 0.70),
	}, base, tuning)

	require.Len(t, ranked, 1)
	assert.InDelta(t, 0.70, ranked[0].RelevanceScore, 1e-9)
}

func TestMergeRankPenalizesExpansionOnlyHits(t *testing.T) {
	tuning := DefaultTuning()
	base := map[string]bool{"a": true, "b": true}

	ranked := MergeRank([]entity.Suggestion{
		suggestion("a", 0.81),
		suggestion("b", 0.40),
		suggestion("c", 0.85), // expansion-only
	}, base, tuning)

	require.Equal(t, []string{"a", "c", "b"}, ids(ranked))
	assert.InDelta(t, 0.76, ranked[1].RelevanceScore, 1e-9)
}

func TestMergeRankPenaltyFloorsAtZero(t *testing.T) {
	tuning := DefaultTuning()

	ranked := MergeRank([]entity.Suggestion{
		suggestion("a", 0.05), // expansion-only, below the penalty
	}, map[string]bool{}, tuning)

	require.Len(t, ranked, 1)
	assert.Equal(t, 0.0, ranked[0].RelevanceScore)
}

func TestMergeRankBaseWinsNearTies(t *testing.T) {
	tuning := DefaultTuning()
	base := map[string]bool{"b1": true}

	// e1 out-scores b1 after the penalty, but only inside the tie window.
	ranked := MergeRank([]entity.Suggestion{
		suggestion("e1", 0.61),
		suggestion("b1", 0.50),
	}, base, tuning)

	assert.Equal(t, []string{"b1", "e1"}, ids(ranked))
}

func TestMergeRankTieBreaksOnTitle(t *testing.T) {
	tuning := DefaultTuning()
	base := map[string]bool{"x": true, "y": true}

	beta := suggestion("x", 0.50)
	beta.Title = "beta.md"
	alpha := suggestion("y", 0.50)
	alpha.Title = "Alpha.md"

	ranked := MergeRank([]entity.Suggestion{beta, alpha}, base, tuning)

	assert.Equal(t, []string{"y", "x"}, ids(ranked))
}

func TestMergeRankDropsImagesAndEmptyIDs(t *testing.T) {
	tuning := DefaultTuning()
	base := map[string]bool{"a": true}

	screenshot := suggestion("img", 0.99)
	screenshot.SourcePath = "/docs/screenshot.png"
	screenshot.Title = "screenshot.png"

	ranked := MergeRank([]entity.Suggestion{
		suggestion("", 0.95),
		screenshot,
		suggestion("a", 0.30),
	}, base, tuning)

	assert.Equal(t, []string{"a"}, ids(ranked))
}

func TestMergeRankKeepsNonFileSourcesRegardlessOfPath(t *testing.T) {
	tuning := DefaultTuning()

	record := entity.Suggestion{
		ID:             "rec",
		SourceType:     "record",
		Title:          "design mockups.png",
		SourceID:       "rec-42",
		RelevanceScore: 0.50,
	}

	ranked := MergeRank([]entity.Suggestion{record}, map[string]bool{"rec": true}, tuning)

	assert.Equal(t, []string{"rec"}, ids(ranked))
}

func TestMergeRankTruncatesToMaxCandidates(t *testing.T) {
	tuning := DefaultTuning()
	base := map[string]bool{}

	var input []entity.Suggestion
	for i := 0; i < tuning.MaxCandidates+7; i++ {
		s := suggestion(fmt.Sprintf("s%02d", i), 0.90-float64(i)*0.06)
		base[s.ID] = true
		input = append(input, s)
	}

	ranked := MergeRank(input, base, tuning)

	assert.Len(t, ranked, tuning.MaxCandidates)
}
