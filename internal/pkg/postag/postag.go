// Package postag provides coarse part-of-speech tagging for query expansion.
// The tagger is a deterministic suffix heuristic: it only needs to separate
// nouns, verbs and adjectives well enough to blend alternate query phrasings,
// not to be linguistically correct.
package postag

import "strings"

type Tag int

const (
	TagOther Tag = iota
	TagNoun
	TagVerb
	TagAdjective
)

var adjectiveSuffixes = []string{
	"able", "ible", "ful", "ous", "ive", "less", "ish", "ical", "ary",
}

var verbSuffixes = []string{
	"ize", "ise", "ify", "ating", "izing", "ising",
}

var nounSuffixes = []string{
	"tion", "sion", "ment", "ness", "ity", "ance", "ence", "ship", "ism",
	"logy", "graph", "base", "file", "data",
}

// common imperative verbs seen at the start of task prompts
var commonVerbs = map[string]bool{
	"summarize": true, "analyze": true, "create": true, "update": true,
	"build": true, "write": true, "review": true, "compare": true,
	"explain": true, "generate": true, "draft": true, "refactor": true,
	"translate": true, "extract": true, "merge": true, "rename": true,
	"delete": true, "find": true, "list": true, "describe": true,
	"implement": true, "investigate": true, "debug": true, "prepare": true,
}

// TagToken assigns a coarse tag to a lower-cased token. Tokens that look like
// identifiers (digits, hyphens, underscores) are treated as nouns since they
// name concrete resources.
func TagToken(token string) Tag {
	if token == "" {
		return TagOther
	}

	if commonVerbs[token] {
		return TagVerb
	}

	if strings.ContainsAny(token, "0123456789-_") {
		return TagNoun
	}

	for _, suffix := range adjectiveSuffixes {
		if len(token) > len(suffix)+1 && strings.HasSuffix(token, suffix) {
			return TagAdjective
		}
	}

	for _, suffix := range verbSuffixes {
		if len(token) > len(suffix)+1 && strings.HasSuffix(token, suffix) {
			return TagVerb
		}
	}

	for _, suffix := range nounSuffixes {
		if len(token) > len(suffix) && strings.HasSuffix(token, suffix) {
			return TagNoun
		}
	}

	if strings.HasSuffix(token, "ing") || strings.HasSuffix(token, "ed") {
		return TagVerb
	}

	// Content words in task drafts are overwhelmingly nouns.
	return TagNoun
}
