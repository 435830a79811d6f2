package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	return &Config{
		EnableMocks: true,
		PipelineCfg: PipelineConfig{
			Debounce:      250 * time.Millisecond,
			MaxExpansions: 1,
		},
		SessionCfg: SessionConfig{
			TTL: 30 * time.Minute,
		},
	}
}

func TestValidateConfigAcceptsMocksWithoutRetrievalURL(t *testing.T) {
	assert.NoError(t, validateConfig(validTestConfig()))
}

func TestValidateConfigRequiresRetrievalURL(t *testing.T) {
	cfg := validTestConfig()
	cfg.EnableMocks = false

	err := validateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RETRIEVAL_SERVICE_URL")

	cfg.RetrievalConnectorCfg.Url = "http://localhost:9090"
	assert.NoError(t, validateConfig(cfg))
}

func TestValidateConfigBoundsDebounce(t *testing.T) {
	cfg := validTestConfig()
	cfg.PipelineCfg.Debounce = time.Millisecond
	assert.Error(t, validateConfig(cfg))

	cfg.PipelineCfg.Debounce = 10 * time.Second
	assert.Error(t, validateConfig(cfg))
}

func TestValidateConfigBoundsMaxExpansions(t *testing.T) {
	cfg := validTestConfig()
	cfg.PipelineCfg.MaxExpansions = 5
	assert.Error(t, validateConfig(cfg))

	cfg.PipelineCfg.MaxExpansions = 0
	assert.NoError(t, validateConfig(cfg))
}

func TestValidateConfigRequiresSaneSessionTTL(t *testing.T) {
	cfg := validTestConfig()
	cfg.SessionCfg.TTL = 10 * time.Second

	assert.Error(t, validateConfig(cfg))
}

func TestGetEnvFile(t *testing.T) {
	assert.Equal(t, ".env.local", getEnvFile("local"))
	assert.Equal(t, ".env.local", getEnvFile("dev"))
	assert.Equal(t, ".env.prod", getEnvFile("prod"))
	assert.Equal(t, ".env.staging", getEnvFile("staging"))
}
