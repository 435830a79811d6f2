package suggest

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/futig/context-engine/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const relevanceSystemPrompt = `You judge whether candidate resources are relevant context for a user's task draft.
You receive the draft and a JSON array of candidates with id, title, resourceName and snippet.
Respond with a single JSON object, no prose:
{"verdicts":[{"id":"...","isRelevant":true,"confidence":0.0,"reason":"..."}]}
Include one verdict per candidate. Confidence is between 0 and 1.`

// Gate suppresses candidates that are topically unrelated to the draft. An LLM
// verdict alone is an unreliable precision signal for short snippets, so every
// accepted verdict is grounded against the draft's keyword set.
type Gate struct {
	llm    LLMConnector
	tuning Tuning
}

// NewGate creates a relevance gate. A nil llm connector is valid: the gate
// degrades to passthrough and logs the missing client.
func NewGate(llm LLMConnector, tuning Tuning) *Gate {
	return &Gate{
		llm:    llm,
		tuning: tuning,
	}
}

// Filter returns the gated candidate list, re-ranked with the base-preference
// tie-break. Any failure contacting or parsing the LLM degrades to the
// un-gated input.
func (g *Gate) Filter(ctx context.Context, draft string, keywords []string, candidates []entity.Suggestion, baseIDs map[string]bool) []entity.Suggestion {
	if len(draft) < g.tuning.GateMinDraftLength ||
		len(keywords) < g.tuning.GateMinKeywords ||
		len(candidates) <= g.tuning.GateMinCandidates {
		return candidates
	}

	if g.llm == nil {
		ctxzap.Warn(ctx, "no LLM client configured, skipping relevance gate")
		return candidates
	}

	verdicts, err := g.requestVerdicts(ctx, draft, candidates)
	if err != nil {
		ctxzap.Warn(ctx, "relevance gate degraded to passthrough", zap.Error(err))
		return candidates
	}

	accepted := make([]entity.Suggestion, 0, len(candidates))
	for _, c := range candidates {
		v, ok := verdicts[c.ID]
		if !ok {
			continue
		}
		if g.acceptVerdict(v, keywords, c) {
			accepted = append(accepted, c)
		}
	}

	if len(accepted) == 0 {
		accepted = g.fallbackAdmission(keywords, candidates)
		ctxzap.Info(ctx, "relevance gate rejected all candidates",
			zap.Int("fallback_admitted", len(accepted)),
		)
	}

	rankCandidates(accepted, baseIDs, g.tuning)
	return accepted
}

func (g *Gate) requestVerdicts(ctx context.Context, draft string, candidates []entity.Suggestion) (map[string]entity.RelevanceVerdict, error) {
	compact := make([]entity.RelevanceCandidate, 0, len(candidates))
	for _, c := range candidates {
		compact = append(compact, entity.RelevanceCandidate{
			ID:           c.ID,
			Title:        c.Title,
			ResourceName: resourceName(c),
			Snippet:      truncateRunes(c.Snippet, g.tuning.MaxSnippetChars),
		})
	}

	payload, err := json.Marshal(compact)
	if err != nil {
		return nil, err
	}

	user := "Draft:\n" + draft + "\n\nCandidates:\n" + string(payload)

	text, err := g.llm.Chat(ctx, relevanceSystemPrompt, user)
	if err != nil {
		return nil, err
	}

	var resp entity.RelevanceVerdictsResponse
	if err := json.Unmarshal([]byte(stripMarkdownFences(text)), &resp); err != nil {
		return nil, err
	}

	verdicts := make(map[string]entity.RelevanceVerdict, len(resp.Verdicts))
	for _, v := range resp.Verdicts {
		verdicts[v.ID] = v
	}
	return verdicts, nil
}

// acceptVerdict applies the two-factor check: the LLM verdict plus keyword
// grounding against the draft.
func (g *Gate) acceptVerdict(v entity.RelevanceVerdict, keywords []string, c entity.Suggestion) bool {
	if !v.IsRelevant || v.Confidence < g.tuning.MinConfidence {
		return false
	}

	if len(keywords) == 0 {
		return v.Confidence >= g.tuning.NoKeywordConfidence
	}

	overlap := keywordOverlapRatio(c, keywords)
	if overlap >= g.tuning.MinOverlapRatio {
		return true
	}
	return v.Confidence >= g.tuning.HighConfidence && overlap >= g.tuning.LowOverlapRatio
}

// fallbackAdmission keeps the UI from going completely empty when the gate
// rejects everything, behind a deliberately conservative bar. The result may
// legitimately still be empty.
func (g *Gate) fallbackAdmission(keywords []string, candidates []entity.Suggestion) []entity.Suggestion {
	var admitted []entity.Suggestion
	for _, c := range candidates {
		if len(admitted) >= g.tuning.FallbackLimit {
			break
		}
		if keywordOverlapRatio(c, keywords) >= g.tuning.FallbackOverlapRatio &&
			c.RelevanceScore >= g.tuning.FallbackMinScore {
			admitted = append(admitted, c)
		}
	}
	return admitted
}

// keywordOverlapRatio is shared keywords over draft keyword count.
func keywordOverlapRatio(c entity.Suggestion, draftKeywords []string) float64 {
	if len(draftKeywords) == 0 {
		return 0
	}

	candidateKeywords := make(map[string]bool)
	for _, kw := range ExtractKeywords(c.Title + " " + c.Snippet) {
		candidateKeywords[kw] = true
	}

	shared := 0
	for _, kw := range draftKeywords {
		if candidateKeywords[kw] {
			shared++
		}
	}

	return float64(shared) / float64(len(draftKeywords))
}

func resourceName(c entity.Suggestion) string {
	if c.SourcePath != "" {
		return filepath.Base(c.SourcePath)
	}
	return c.SourceID
}

// stripMarkdownFences tolerates responses wrapped in a ``` or ```json block.
func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
