package suggest

import (
	"context"

	"github.com/futig/context-engine/internal/entity"
)

type RetrievalConnector interface {
	Suggest(ctx context.Context, req *entity.SuggestRequest) (*entity.SuggestResponse, error)
	CreateContextPack(ctx context.Context, req *entity.ContextPackRequest) (*entity.ContextPack, error)
}

type LLMConnector interface {
	Chat(ctx context.Context, system, user string) (string, error)
}
