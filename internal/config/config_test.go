package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "https://fullnode.mainnet.aptoslabs.com/v1", cfg.Aptos.NodeURL)
	assert.Equal(t, 0.05, cfg.Execution.Slippage)
	assert.Equal(t, 1200*time.Second, cfg.Execution.DeadlineWindow)
	assert.False(t, cfg.Execution.AllowSimulated)
	assert.Equal(t, 10*time.Second, cfg.Sources.CacheTTL)
	assert.Equal(t, 60*time.Second, cfg.Market.RefreshInterval)
	assert.Equal(t, 30*time.Second, cfg.Stream.RefreshInterval)
	assert.Equal(t, "petra", cfg.Wallet.Adapter)
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "https://fullnode.testnet.aptoslabs.com/v1", cfg.Aptos.NodeURL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Second, cfg.Sources.Timeout)
	assert.Equal(t, "5.20", cfg.Sources.FallbackRates["APT_USDC"])
	assert.Equal(t, "0xa99", cfg.Execution.AggregatorAddress)
	assert.Equal(t, 0.01, cfg.Execution.Slippage)
	assert.True(t, cfg.Execution.AllowSimulated)
	assert.Equal(t, "pontem", cfg.Wallet.Adapter)

	// untouched keys keep their defaults
	assert.Equal(t, "router", cfg.Execution.Module)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("AGG_SERVER_PORT", "7070")
	t.Setenv("AGG_EXECUTION_ALLOW_SIMULATED", "true")

	cfg, err := Load(filepath.Join("testdata", "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.True(t, cfg.Execution.AllowSimulated)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return *cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty node url", func(c *Config) { c.Aptos.NodeURL = "" }},
		{"slippage of one", func(c *Config) { c.Execution.Slippage = 1 }},
		{"negative slippage", func(c *Config) { c.Execution.Slippage = -0.1 }},
		{"zero deadline", func(c *Config) { c.Execution.DeadlineWindow = 0 }},
		{"zero market refresh", func(c *Config) { c.Market.RefreshInterval = 0 }},
		{"zero stream refresh", func(c *Config) { c.Stream.RefreshInterval = 0 }},
		{"unknown wallet", func(c *Config) { c.Wallet.Adapter = "martian" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "config.example.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "config/tokens.yaml", cfg.Tokens.File)
	assert.Equal(t, 20*time.Minute, cfg.Execution.DeadlineWindow)
	assert.Equal(t, "473.9", cfg.Sources.FallbackRates["WETH_APT"])
	assert.Equal(t, "APTOS_PRIVATE_KEYS", cfg.Wallet.KeysEnv)
}
