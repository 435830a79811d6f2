package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`

	// External service configurations
	RetrievalConnectorCfg RetrievalConnectorConfig `envPrefix:"RETRIEVAL_"`
	LLMConnectorCfg       LLMConnectorConfig       `envPrefix:"LLM_"`

	// Pipeline tuning overrides
	PipelineCfg PipelineConfig `envPrefix:"PIPELINE_"`

	// Session lifecycle
	SessionCfg SessionConfig `envPrefix:"SESSION_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type RetrievalConnectorConfig struct {
	HTTPClientConfig
	SuggestEndpoint     string `env:"SUGGEST_ENDPOINT" envDefault:"/retrieval/suggest"`
	ContextPackEndpoint string `env:"CONTEXT_PACK_ENDPOINT" envDefault:"/retrieval/context-pack"`
}

type LLMConnectorConfig struct {
	// APIKey may be empty: the relevance gate then degrades to passthrough.
	APIKey  string `env:"API_KEY"`
	BaseURL string `env:"BASE_URL"`
	Model   string `env:"MODEL" envDefault:"gpt-4o-mini"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"10s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

// PipelineConfig overrides the operational pipeline thresholds. Ranking
// constants stay code defaults; re-tuning them only makes sense against a
// specific backend's score distribution.
type PipelineConfig struct {
	Debounce              time.Duration `env:"DEBOUNCE" envDefault:"250ms"`
	MinIdleBeforeGate     time.Duration `env:"MIN_IDLE_BEFORE_GATE" envDefault:"650ms"`
	GateSettleDelay       time.Duration `env:"GATE_SETTLE_DELAY" envDefault:"200ms"`
	PrimaryFastTimeout    time.Duration `env:"PRIMARY_FAST_TIMEOUT" envDefault:"1200ms"`
	PrimaryDeepTimeout    time.Duration `env:"PRIMARY_DEEP_TIMEOUT" envDefault:"1800ms"`
	ExpansionFastTimeout  time.Duration `env:"EXPANSION_FAST_TIMEOUT" envDefault:"1200ms"`
	RetryDelay            time.Duration `env:"RETRY_DELAY" envDefault:"150ms"`
	RetryTimeoutIncrement time.Duration `env:"RETRY_TIMEOUT_INCREMENT" envDefault:"600ms"`
	MaxExpansions         int           `env:"MAX_EXPANSIONS" envDefault:"1"`
}

// SessionConfig controls reclamation of abandoned input sessions.
type SessionConfig struct {
	TTL             time.Duration `env:"TTL" envDefault:"30m"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"5m"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if !cfg.EnableMocks && cfg.RetrievalConnectorCfg.Url == "" {
		return fmt.Errorf("RETRIEVAL_SERVICE_URL must be set unless ENABLE_MOCKS is true")
	}

	if cfg.PipelineCfg.Debounce < 10*time.Millisecond || cfg.PipelineCfg.Debounce > 5*time.Second {
		return fmt.Errorf("PIPELINE_DEBOUNCE must be between 10ms and 5s, got %s", cfg.PipelineCfg.Debounce)
	}

	if cfg.PipelineCfg.MaxExpansions < 0 || cfg.PipelineCfg.MaxExpansions > 4 {
		return fmt.Errorf("PIPELINE_MAX_EXPANSIONS must be between 0 and 4, got %d", cfg.PipelineCfg.MaxExpansions)
	}

	if cfg.SessionCfg.TTL < time.Minute {
		return fmt.Errorf("SESSION_TTL must be at least 1m, got %s", cfg.SessionCfg.TTL)
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
