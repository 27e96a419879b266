// Package config loads service and CLI configuration from a yaml file,
// AGG_* environment variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. AGG_APTOS_NODE_URL
const EnvPrefix = "AGG"

// Config collects every configuration leaf
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Aptos     AptosConfig     `mapstructure:"aptos"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Tokens    TokensConfig    `mapstructure:"tokens"`
	Sources   SourcesConfig   `mapstructure:"sources"`
	Execution ExecutionConfig `mapstructure:"execution"`
	Market    MarketConfig    `mapstructure:"market"`
	Session   SessionConfig   `mapstructure:"session"`
	Stream    StreamConfig    `mapstructure:"stream"`
	Wallet    WalletConfig    `mapstructure:"wallet"`
}

type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	LogLevel       string        `mapstructure:"log_level"`
	LogPretty      bool          `mapstructure:"log_pretty"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type AptosConfig struct {
	NodeURL string `mapstructure:"node_url"`
}

// RedisConfig selects the in-memory cache when Addr is empty
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type TokensConfig struct {
	// File is a yaml token list; the built-in registry is used when empty
	File string `mapstructure:"file"`
}

type SourcesConfig struct {
	LiquidswapAddress  string            `mapstructure:"liquidswap_address"`
	PancakeSwapAddress string            `mapstructure:"pancakeswap_address"`
	AriesAddress       string            `mapstructure:"aries_address"`
	PanoraBaseURL      string            `mapstructure:"panora_base_url"`
	PanoraAPIKey       string            `mapstructure:"panora_api_key"`
	Timeout            time.Duration     `mapstructure:"timeout"`
	CacheTTL           time.Duration     `mapstructure:"cache_ttl"`
	FallbackRates      map[string]string `mapstructure:"fallback_rates"`
}

type ExecutionConfig struct {
	AggregatorAddress string        `mapstructure:"aggregator_address"`
	Module            string        `mapstructure:"module"`
	Slippage          float64       `mapstructure:"slippage"`
	DeadlineWindow    time.Duration `mapstructure:"deadline_window"`
	AllowSimulated    bool          `mapstructure:"allow_simulated"`
}

type MarketConfig struct {
	PriceAPIURL     string        `mapstructure:"price_api_url"`
	APIKey          string        `mapstructure:"api_key"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type StreamConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

type WalletConfig struct {
	Adapter      string        `mapstructure:"adapter"`
	KeysEnv      string        `mapstructure:"keys_env"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// Load reads path (optional) and applies environment overrides
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // best-effort

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_pretty", false)
	v.SetDefault("server.request_timeout", 30*time.Second)

	v.SetDefault("aptos.node_url", "https://fullnode.mainnet.aptoslabs.com/v1")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("tokens.file", "")

	v.SetDefault("sources.liquidswap_address", "")
	v.SetDefault("sources.pancakeswap_address", "")
	v.SetDefault("sources.aries_address", "")
	v.SetDefault("sources.panora_base_url", "https://api.panora.exchange")
	v.SetDefault("sources.panora_api_key", "")
	v.SetDefault("sources.timeout", 8*time.Second)
	v.SetDefault("sources.cache_ttl", 10*time.Second)

	v.SetDefault("execution.aggregator_address", "")
	v.SetDefault("execution.module", "router")
	v.SetDefault("execution.slippage", 0.05)
	v.SetDefault("execution.deadline_window", 1200*time.Second)
	v.SetDefault("execution.allow_simulated", false)

	v.SetDefault("market.price_api_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("market.api_key", "")
	v.SetDefault("market.refresh_interval", 60*time.Second)

	v.SetDefault("session.ttl", 24*time.Hour)

	v.SetDefault("stream.refresh_interval", 30*time.Second)

	v.SetDefault("wallet.adapter", "petra")
	v.SetDefault("wallet.keys_env", "APTOS_PRIVATE_KEYS")
	v.SetDefault("wallet.poll_interval", 15*time.Second)
}

// normalize restores upper-case symbol pairs; viper lower-cases map keys
func (c *Config) normalize() {
	if len(c.Sources.FallbackRates) == 0 {
		return
	}
	rates := make(map[string]string, len(c.Sources.FallbackRates))
	for pair, rate := range c.Sources.FallbackRates {
		rates[strings.ToUpper(pair)] = rate
	}
	c.Sources.FallbackRates = rates
}

// Validate validates configuration
func (c *Config) Validate() error {
	if c.Aptos.NodeURL == "" {
		return errors.New("aptos.node_url is required")
	}
	if c.Execution.Slippage < 0 || c.Execution.Slippage >= 1 {
		return fmt.Errorf("execution.slippage must be in [0, 1), got %v", c.Execution.Slippage)
	}
	if c.Execution.DeadlineWindow <= 0 {
		return errors.New("execution.deadline_window must be positive")
	}
	if c.Sources.CacheTTL < 0 {
		return errors.New("sources.cache_ttl must not be negative")
	}
	if c.Market.RefreshInterval <= 0 {
		return errors.New("market.refresh_interval must be positive")
	}
	if c.Stream.RefreshInterval <= 0 {
		return errors.New("stream.refresh_interval must be positive")
	}
	switch strings.ToLower(c.Wallet.Adapter) {
	case "petra", "pontem":
	default:
		return fmt.Errorf("wallet.adapter must be petra or pontem, got %q", c.Wallet.Adapter)
	}
	return nil
}
