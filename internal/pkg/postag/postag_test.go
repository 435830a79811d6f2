package postag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagToken(t *testing.T) {
	cases := []struct {
		token string
		want  Tag
	}{
		{"", TagOther},
		{"summarize", TagVerb},
		{"planning", TagVerb},
		{"modernize", TagVerb},
		{"budget", TagNoun},
		{"configuration", TagNoun},
		{"deployment", TagNoun},
		{"database", TagNoun},
		{"api_v2", TagNoun},
		{"quick-fix", TagNoun},
		{"q3report", TagNoun},
		{"helpful", TagAdjective},
		{"reusable", TagAdjective},
		{"previous", TagAdjective},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, TagToken(tc.token), "token %q", tc.token)
	}
}

func TestTagTokenIdentifiersAreNouns(t *testing.T) {
	// Identifier-looking tokens name concrete resources, whatever their suffix.
	assert.Equal(t, TagNoun, TagToken("summarize-all"))
	assert.Equal(t, TagNoun, TagToken("v2_helpful"))
}
