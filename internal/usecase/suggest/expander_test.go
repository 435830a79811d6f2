package suggest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const expandableDraft = "summarize quarterly financial report budget planning spreadsheet"

func TestExpandQuerySkipsShortQuery(t *testing.T) {
	tuning := DefaultTuning()

	expansions := ExpandQuery("fix the bug", []string{"fix", "bug"}, tuning)

	assert.Nil(t, expansions)
}

func TestExpandQuerySkipsKeywordPoorQuery(t *testing.T) {
	tuning := DefaultTuning()
	query := strings.Repeat("aaaaaaaa ", 8)
	require.GreaterOrEqual(t, len(query), tuning.ExpansionMinQueryLength)

	expansions := ExpandQuery(query, []string{"aaaaaaaa"}, tuning)

	assert.Nil(t, expansions)
}

func TestExpandQueryCapsAtMaxExpansions(t *testing.T) {
	tuning := DefaultTuning()
	query, keywords := NormalizeDraft(expandableDraft, tuning)

	expansions := ExpandQuery(query, keywords, tuning)

	require.Len(t, expansions, tuning.MaxExpansions)
	assert.Equal(t, "quarterly financial report budget spreadsheet", expansions[0])
}

func TestExpandQueryBlendsAreDistinctFromQuery(t *testing.T) {
	tuning := DefaultTuning()
	tuning.MaxExpansions = 4
	query, keywords := NormalizeDraft(expandableDraft, tuning)

	expansions := ExpandQuery(query, keywords, tuning)

	require.NotEmpty(t, expansions)
	seen := make(map[string]bool)
	for _, e := range expansions {
		assert.NotEqual(t, strings.ToLower(query), strings.ToLower(e))
		assert.False(t, seen[strings.ToLower(e)], "duplicate expansion %q", e)
		seen[strings.ToLower(e)] = true
	}
}

func TestExpandQueryDeterministic(t *testing.T) {
	tuning := DefaultTuning()
	tuning.MaxExpansions = 4
	query, keywords := NormalizeDraft(expandableDraft, tuning)

	first := ExpandQuery(query, keywords, tuning)
	second := ExpandQuery(query, keywords, tuning)

	assert.Equal(t, first, second)
}
