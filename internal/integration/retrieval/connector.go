package retrieval

import (
	"context"
	"fmt"
	"net/http"

	"github.com/futig/context-engine/internal/config"
	"github.com/futig/context-engine/internal/entity"
	"github.com/futig/context-engine/internal/integration/common"
	pkghttp "github.com/futig/context-engine/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector talks to the retrieval daemon. Profile-specific deadlines come
// from the caller's context; the client-level request timeout is only an outer
// bound.
type Connector struct {
	config    config.RetrievalConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.RetrievalConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Suggest queries the daemon for context suggestions
// POST {suggest_endpoint}
func (c *Connector) Suggest(ctx context.Context, req *entity.SuggestRequest) (*entity.SuggestResponse, error) {
	ctxzap.Debug(ctx, "querying retrieval daemon",
		zap.Int("limit", req.Limit),
		zap.Bool("typing_mode", req.TypingMode),
	)

	var resp entity.SuggestResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.SuggestEndpoint, req, &resp)
	if err != nil {
		return nil, fmt.Errorf("suggest query failed: %w", err)
	}

	ctxzap.Debug(ctx, "suggestions retrieved", zap.Int("count", len(resp.Suggestions)))
	return &resp, nil
}

// CreateContextPack asks the daemon to assemble the selected suggestions
// POST {context_pack_endpoint}
func (c *Connector) CreateContextPack(ctx context.Context, req *entity.ContextPackRequest) (*entity.ContextPack, error) {
	ctxzap.Info(ctx, "creating context pack",
		zap.Int("selected_count", len(req.SelectedSuggestionIDs)),
	)

	var pack entity.ContextPack
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.ContextPackEndpoint, req, &pack)
	if err != nil {
		ctxzap.Error(ctx, "failed to create context pack", zap.Error(err))
		return nil, fmt.Errorf("create context pack: %w", err)
	}

	if pack.ID == "" {
		return nil, fmt.Errorf("invalid context pack response: empty id")
	}

	ctxzap.Info(ctx, "context pack created successfully",
		zap.String("pack_id", pack.ID),
	)
	return &pack, nil
}
