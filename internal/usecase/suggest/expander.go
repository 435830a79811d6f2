package suggest

import (
	"strings"

	"github.com/futig/context-engine/internal/pkg/postag"
)

// ExpandQuery derives alternate phrasings of the retrieval query to recover
// recall on long, entity-rich drafts. Short or keyword-poor queries return
// nothing so simple drafts stay cheap.
func ExpandQuery(query string, keywords []string, t Tuning) []string {
	if len(query) < t.ExpansionMinQueryLength || len(keywords) < t.ExpansionMinKeywords {
		return nil
	}

	var nouns, verbs, adjectives, remaining []string
	for _, kw := range keywords {
		switch postag.TagToken(kw) {
		case postag.TagNoun:
			nouns = append(nouns, kw)
		case postag.TagVerb:
			verbs = append(verbs, kw)
		case postag.TagAdjective:
			adjectives = append(adjectives, kw)
		default:
			remaining = append(remaining, kw)
		}
	}

	topKeywords := keywords
	if len(topKeywords) > 3 {
		topKeywords = topKeywords[:3]
	}

	blends := [][]string{
		nouns,
		joinBlend(nouns, verbs),
		joinBlend(nouns, adjectives, remaining),
		topKeywords,
	}

	var expansions []string
	seen := make(map[string]bool)
	for _, blend := range blends {
		candidate := strings.Join(dedupOrdered(blend), " ")
		if candidate == "" || strings.EqualFold(candidate, query) {
			continue
		}
		key := strings.ToLower(candidate)
		if seen[key] {
			continue
		}
		seen[key] = true
		expansions = append(expansions, candidate)
	}

	if len(expansions) > t.MaxExpansions {
		expansions = expansions[:t.MaxExpansions]
	}

	return expansions
}

func joinBlend(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func dedupOrdered(tokens []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, tok := range tokens {
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}
