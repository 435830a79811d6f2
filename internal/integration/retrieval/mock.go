package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/context-engine/internal/entity"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector is a stand-in for the retrieval daemon so the service runs
// end-to-end without one. Results are derived deterministically from the query
// keywords.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Suggest(ctx context.Context, req *entity.SuggestRequest) (*entity.SuggestResponse, error) {
	ctxzap.Info(ctx, "[MOCK] querying retrieval daemon",
		zap.String("query", req.Query),
		zap.Int("limit", req.Limit),
	)

	tokens := strings.Fields(strings.ToLower(req.Query))
	if len(tokens) > 3 {
		tokens = tokens[:3]
	}

	suggestions := make([]entity.Suggestion, 0, len(tokens))
	for i, token := range tokens {
		suggestions = append(suggestions, entity.Suggestion{
			ID:             "mock-" + token,
			SourceType:     entity.SourceTypeFile,
			Title:          token + "-notes.md",
			Snippet:        fmt.Sprintf("Notes mentioning %q collected from the local index.", token),
			SourceID:       "mock-source",
			SourcePath:     "/tmp/mock/" + token + "-notes.md",
			RelevanceScore: 0.8 - 0.15*float64(i),
		})
	}

	return &entity.SuggestResponse{Suggestions: suggestions}, nil
}

func (m *MockConnector) CreateContextPack(ctx context.Context, req *entity.ContextPackRequest) (*entity.ContextPack, error) {
	ctxzap.Info(ctx, "[MOCK] creating context pack",
		zap.Int("selected_count", len(req.SelectedSuggestionIDs)),
	)

	paths := make([]string, 0, len(req.SelectedSuggestionIDs))
	for _, id := range req.SelectedSuggestionIDs {
		paths = append(paths, "/tmp/mock/"+id+".md")
	}

	return &entity.ContextPack{
		ID:                 uuid.New().String(),
		AttachmentPaths:    paths,
		InlinePromptBlocks: []string{"(mock context pack)"},
	}, nil
}
