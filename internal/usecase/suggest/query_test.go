package suggest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractKeywords(t *testing.T) {
	keywords := ExtractKeywords("The quick-fix for the API_v2 bug, ASAP!")

	assert.Equal(t, []string{"quick-fix", "api_v2", "bug", "asap"}, keywords)
}

func TestExtractKeywordsDropsShortAndStopWords(t *testing.T) {
	keywords := ExtractKeywords("to do it for them with care")

	assert.Equal(t, []string{"care"}, keywords)
}

func TestExtractKeywordsUniqueInOrder(t *testing.T) {
	keywords := ExtractKeywords("budget report budget Report BUDGET planning")

	assert.Equal(t, []string{"budget", "report", "planning"}, keywords)
}

func TestNormalizeDraftDeterministic(t *testing.T) {
	draft := "Summarize the Q3 budget spreadsheet for finance"
	tuning := DefaultTuning()

	q1, kw1 := NormalizeDraft(draft, tuning)
	q2, kw2 := NormalizeDraft(draft, tuning)

	assert.Equal(t, q1, q2)
	assert.Equal(t, kw1, kw2)
}

func TestBuildRetrievalQueryShortDraftPassesThrough(t *testing.T) {
	tuning := DefaultTuning()
	draft := "Summarize   the Q3\tbudget spreadsheet"

	query, _ := NormalizeDraft(draft, tuning)

	assert.Equal(t, "Summarize the Q3 budget spreadsheet", query)
}

func TestBuildRetrievalQueryCompactsLongDraft(t *testing.T) {
	tuning := DefaultTuning()
	draft := strings.Repeat("review the deployment pipeline configuration for the staging cluster ", 5)
	require.GreaterOrEqual(t, len(draft), tuning.QueryCompactionThreshold)

	query, keywords := NormalizeDraft(draft, tuning)

	assert.Equal(t, strings.Join(keywords, " "), query)
	assert.LessOrEqual(t, len(strings.Fields(query)), tuning.MaxQueryKeywords)
	assert.LessOrEqual(t, len(query), tuning.MaxQueryLength)
}

func TestBuildRetrievalQueryTruncatesWhenCompactionInsufficient(t *testing.T) {
	tuning := DefaultTuning()
	// Long unique identifiers keep the compacted query over the max length.
	var parts []string
	for _, c := range "abcdefghijklmn" {
		parts = append(parts, strings.Repeat(string(c), 25))
	}
	draft := strings.Join(parts, " ")

	query, _ := NormalizeDraft(draft, tuning)

	assert.LessOrEqual(t, len(query), tuning.MaxQueryLength)
	assert.NotEmpty(t, query)
}
