package builder

import (
	"fmt"
	"net/http"
	"time"

	"github.com/futig/context-engine/internal/api"
	sessionapi "github.com/futig/context-engine/internal/api/session"
	"github.com/futig/context-engine/internal/config"
	"github.com/futig/context-engine/internal/integration/llm"
	"github.com/futig/context-engine/internal/integration/retrieval"
	"github.com/futig/context-engine/internal/pkg/logger"
	"github.com/futig/context-engine/internal/session"
	"github.com/futig/context-engine/internal/usecase/suggest"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	log.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Initialize external service connectors (with mock support)
	var retrievalConnector suggest.RetrievalConnector
	var llmConnector suggest.LLMConnector

	if cfg.EnableMocks {
		log.Info("Using mock connectors for external services")
		retrievalConnector = retrieval.NewMockConnector(log)
		llmConnector = llm.NewMockConnector(log)
	} else {
		log.Info("Using real connectors for external services")
		retrievalConnector = retrieval.NewConnector(cfg.RetrievalConnectorCfg, log)
		if cfg.LLMConnectorCfg.APIKey != "" {
			llmConnector = llm.NewConnector(cfg.LLMConnectorCfg, log)
		} else {
			// Valid configuration: the relevance gate degrades to passthrough.
			log.Warn("No LLM API key configured, relevance gate will pass candidates through")
		}
	}

	tuning := buildTuning(cfg.PipelineCfg)

	// Session registry owns one pipeline controller per input session.
	registry := session.NewRegistry(
		session.RegistryConfig{
			TTL:             cfg.SessionCfg.TTL,
			CleanupInterval: cfg.SessionCfg.CleanupInterval,
		},
		func() *suggest.Controller {
			return suggest.NewController(retrievalConnector, llmConnector, tuning, log)
		},
		log,
	)
	log.Info("Session registry initialized",
		zap.Duration("ttl", cfg.SessionCfg.TTL),
	)

	// Setup API handlers
	sessionHandler := sessionapi.NewHandler(registry)
	router := api.SetupRouter(sessionHandler, log)
	log.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:   server,
		registry: registry,
		logger:   log,
	}, nil
}

// buildTuning applies the operational config overrides onto the code defaults.
func buildTuning(cfg config.PipelineConfig) suggest.Tuning {
	t := suggest.DefaultTuning()
	t.Debounce = cfg.Debounce
	t.MinIdleBeforeGate = cfg.MinIdleBeforeGate
	t.GateSettleDelay = cfg.GateSettleDelay
	t.PrimaryFast.Timeout = cfg.PrimaryFastTimeout
	t.PrimaryDeep.Timeout = cfg.PrimaryDeepTimeout
	t.ExpansionFast.Timeout = cfg.ExpansionFastTimeout
	t.RetryDelay = cfg.RetryDelay
	t.RetryTimeoutIncrement = cfg.RetryTimeoutIncrement
	t.MaxExpansions = cfg.MaxExpansions
	return t
}
