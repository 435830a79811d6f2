package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/futig/context-engine/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector answers relevance prompts without an LLM provider: it extracts
// the candidate ids from the user message and marks everything relevant.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Chat(ctx context.Context, system, user string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] answering chat completion")

	verdicts := entity.RelevanceVerdictsResponse{Verdicts: []entity.RelevanceVerdict{}}

	start := strings.Index(user, "[")
	end := strings.LastIndex(user, "]")
	if start >= 0 && end > start {
		var candidates []entity.RelevanceCandidate
		if err := json.Unmarshal([]byte(user[start:end+1]), &candidates); err == nil {
			for _, c := range candidates {
				verdicts.Verdicts = append(verdicts.Verdicts, entity.RelevanceVerdict{
					ID:         c.ID,
					IsRelevant: true,
					Confidence: 0.93,
					Reason:     "mock verdict",
				})
			}
		}
	}

	out, err := json.Marshal(verdicts)
	if err != nil {
		return "", err
	}

	// Fenced on purpose: exercises the caller's fence stripping.
	return "```json\n" + string(out) + "\n```", nil
}
