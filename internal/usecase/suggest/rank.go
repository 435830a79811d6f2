package suggest

import (
	"math"
	"sort"
	"strings"

	"github.com/futig/context-engine/internal/entity"
)

// MergeRank turns the raw concatenation of retrieval responses into the ranked
// candidate list: filter non-searchable hits, dedup by id keeping the higher
// score, penalize expansion-only hits, rank with the base-preference tie-break
// and truncate. Pure and synchronous: no I/O.
func MergeRank(candidates []entity.Suggestion, baseIDs map[string]bool, t Tuning) []entity.Suggestion {
	best := make(map[string]entity.Suggestion)
	var order []string

	for _, c := range candidates {
		if c.ID == "" || !c.IsSearchable() {
			continue
		}
		prev, ok := best[c.ID]
		if !ok {
			best[c.ID] = c
			order = append(order, c.ID)
			continue
		}
		if c.RelevanceScore > prev.RelevanceScore {
			best[c.ID] = c
		}
	}

	merged := make([]entity.Suggestion, 0, len(order))
	for _, id := range order {
		s := best[id]
		if !baseIDs[id] {
			// Expansion-only hits must out-score base hits by more than the
			// penalty to rank above them.
			s.RelevanceScore = math.Max(0, s.RelevanceScore-t.ExpansionPenalty)
		}
		merged = append(merged, s)
	}

	rankCandidates(merged, baseIDs, t)

	if len(merged) > t.MaxCandidates {
		merged = merged[:t.MaxCandidates]
	}

	return merged
}

// rankCandidates sorts descending by score. Scores closer than TieBreakDelta
// are treated as ties: a base-profile suggestion orders ahead of an
// expansion-only one, otherwise case-insensitive title order wins.
func rankCandidates(list []entity.Suggestion, baseIDs map[string]bool, t Tuning) {
	sort.SliceStable(list, func(i, j int) bool {
		si, sj := list[i], list[j]
		if math.Abs(si.RelevanceScore-sj.RelevanceScore) < t.TieBreakDelta {
			bi, bj := baseIDs[si.ID], baseIDs[sj.ID]
			if bi != bj {
				return bi
			}
			return strings.ToLower(si.Title) < strings.ToLower(sj.Title)
		}
		return si.RelevanceScore > sj.RelevanceScore
	})
}
