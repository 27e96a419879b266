// Package app turns a loaded Config into the components both binaries share.
package app

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bimakw/aptos-dex-aggregator/internal/config"
	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
	"github.com/bimakw/aptos-dex-aggregator/internal/domain/services"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/aptos"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/cache"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/dex"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/wallet"
)

// LoadRegistry reads the configured token list, or returns the built-in
// registry when none is set or the file cannot be loaded.
func LoadRegistry(cfg *config.Config, log zerolog.Logger) *entities.TokenRegistry {
	if cfg.Tokens.File == "" {
		return entities.DefaultRegistry()
	}

	registry := entities.NewTokenRegistry()
	if err := registry.LoadFromFile(cfg.Tokens.File); err != nil {
		log.Warn().Err(err).Str("file", cfg.Tokens.File).Msg("using built-in token list")
		return entities.DefaultRegistry()
	}
	log.Info().Int("tokens", registry.Count()).Str("file", cfg.Tokens.File).Msg("loaded token registry")
	return registry
}

// SourceConfig maps the sources section onto dex.Config
func SourceConfig(cfg *config.Config) dex.Config {
	return dex.Config{
		LiquidswapAddress:  cfg.Sources.LiquidswapAddress,
		PancakeSwapAddress: cfg.Sources.PancakeSwapAddress,
		AriesAddress:       cfg.Sources.AriesAddress,
		PanoraBaseURL:      cfg.Sources.PanoraBaseURL,
		PanoraAPIKey:       cfg.Sources.PanoraAPIKey,
		Timeout:            cfg.Sources.Timeout,
		FallbackRates:      cfg.Sources.FallbackRates,
	}
}

// ExecutionConfig maps the execution section onto services.ExecutionConfig
func ExecutionConfig(cfg *config.Config) services.ExecutionConfig {
	exec := services.DefaultExecutionConfig(cfg.Execution.AggregatorAddress)
	if cfg.Execution.Module != "" {
		exec.Module = cfg.Execution.Module
	}
	exec.Slippage = decimal.NewFromFloat(cfg.Execution.Slippage)
	exec.DeadlineWindow = cfg.Execution.DeadlineWindow
	exec.AllowSimulated = cfg.Execution.AllowSimulated
	return exec
}

// NewAggregator builds every quote source against node and wraps them in
// an aggregator using c for caching.
func NewAggregator(cfg *config.Config, node dex.ViewCaller, registry *entities.TokenRegistry, c cache.Cache, log zerolog.Logger) *services.AggregatorService {
	sources := dex.NewSources(node, registry, SourceConfig(cfg))
	agg := services.NewAggregatorService(sources, c, log)
	agg.SetCacheTTL(cfg.Sources.CacheTTL)
	return agg
}

// NewWallet builds the configured adapter from keys in the keys_env
// variable (or .env file).
func NewWallet(cfg *config.Config, node *aptos.Client, log zerolog.Logger) (wallet.Wallet, error) {
	accounts, err := wallet.AccountsFromEnv(cfg.Wallet.KeysEnv)
	if err != nil {
		return nil, err
	}
	return wallet.New(cfg.Wallet.Adapter, node, accounts, wallet.Options{
		PollInterval: cfg.Wallet.PollInterval,
		Logger:       log,
	})
}
