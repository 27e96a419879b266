package dex

import (
	"time"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
)

// Config locates the venues queried for quotes
type Config struct {
	LiquidswapAddress  string
	PancakeSwapAddress string
	AriesAddress       string
	PanoraBaseURL      string
	PanoraAPIKey       string
	Timeout            time.Duration
	// FallbackRates overrides DefaultRates when non-empty
	FallbackRates map[string]string
}

// NewSources builds every quote source in invocation order
func NewSources(caller ViewCaller, registry *entities.TokenRegistry, cfg Config) []QuoteSource {
	rates := cfg.FallbackRates
	if len(rates) == 0 {
		rates = DefaultRates
	}
	table := NewRateTable(rates)

	return []QuoteSource{
		NewLiquidswapClient(caller, registry, cfg.LiquidswapAddress),
		NewPancakeSwapClient(caller, registry, cfg.PancakeSwapAddress),
		NewAriesClient(caller, registry, cfg.AriesAddress, table),
		NewPanoraClient(cfg.PanoraBaseURL, cfg.PanoraAPIKey, cfg.Timeout, registry, table),
	}
}
