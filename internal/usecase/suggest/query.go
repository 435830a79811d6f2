package suggest

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "any": true, "can": true,
	"her": true, "was": true, "one": true, "our": true, "out": true,
	"has": true, "had": true, "have": true, "him": true, "his": true,
	"how": true, "its": true, "may": true, "new": true, "now": true,
	"old": true, "see": true, "two": true, "way": true, "who": true,
	"did": true, "get": true, "let": true, "put": true, "say": true,
	"she": true, "too": true, "use": true, "that": true, "this": true,
	"with": true, "from": true, "they": true, "been": true, "were": true,
	"what": true, "when": true, "your": true, "will": true, "would": true,
	"there": true, "their": true, "about": true, "which": true, "into": true,
	"could": true, "should": true, "them": true, "then": true, "than": true,
	"some": true, "also": true, "each": true, "just": true, "like": true,
	"only": true, "over": true, "such": true, "very": true, "want": true,
	"need": true, "please": true, "make": true, "sure": true, "here": true,
	"where": true, "while": true, "these": true, "those": true, "does": true,
	"using": true, "being": true, "after": true, "before": true, "between": true,
}

// ExtractKeywords returns the strict keyword set for a draft: lower-cased
// tokens of length >= 3, alphanumeric plus hyphen/underscore, stop words
// removed, unique and in order of first appearance. Deterministic for a fixed
// input.
func ExtractKeywords(draft string) []string {
	var keywords []string
	seen := make(map[string]bool)

	for _, field := range strings.Fields(strings.ToLower(draft)) {
		token := cleanToken(field)
		if len(token) < 3 || stopWords[token] || seen[token] {
			continue
		}
		seen[token] = true
		keywords = append(keywords, token)
	}

	return keywords
}

func cleanToken(field string) string {
	var b strings.Builder
	for _, r := range field {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// BuildRetrievalQuery produces the length-bounded query string sent to the
// retrieval daemon. Short drafts pass through verbatim; long drafts are
// compacted to their leading keywords, then hard-truncated if still too long.
func BuildRetrievalQuery(draft string, keywords []string, t Tuning) string {
	cleaned := strings.Join(strings.Fields(draft), " ")
	if len(cleaned) < t.QueryCompactionThreshold {
		return cleaned
	}

	compact := keywords
	if len(compact) > t.MaxQueryKeywords {
		compact = compact[:t.MaxQueryKeywords]
	}
	query := strings.Join(compact, " ")
	if query == "" {
		query = cleaned
	}

	if len(query) > t.MaxQueryLength {
		query = truncateRunes(query, t.MaxQueryLength)
	}

	return query
}

func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Cut on a rune boundary at or below max bytes.
	i := max
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return s[:i]
}

// NormalizeDraft runs the full normalizer: keyword extraction plus query
// construction.
func NormalizeDraft(draft string, t Tuning) (query string, keywords []string) {
	keywords = ExtractKeywords(draft)
	query = BuildRetrievalQuery(draft, keywords, t)
	return query, keywords
}
