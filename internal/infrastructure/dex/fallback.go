package dex

import (
	"github.com/shopspring/decimal"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
)

// DefaultRates are directional SYMBOL_SYMBOL exchange rates used when a
// venue cannot be reached. They carry no timestamp.
var DefaultRates = map[string]string{
	"APT_USDC":  "5.17",
	"APT_USDT":  "5.16",
	"USDC_USDT": "1.0",
	"WETH_USDC": "2450",
	"WETH_APT":  "473.9",
	"CAKE_USDC": "2.35",
	"CAKE_APT":  "0.4545",
}

// Fee multipliers applied by the fallback pricers
var (
	AriesFallbackMultiplier  = decimal.RequireFromString("0.998")
	PanoraFallbackMultiplier = decimal.RequireFromString("0.9982")
)

// RateTable maps "FROM_TO" symbol pairs to rates
type RateTable map[string]decimal.Decimal

// NewRateTable parses a symbol-pair rate map, skipping unparsable entries
func NewRateTable(rates map[string]string) RateTable {
	t := make(RateTable, len(rates))
	for pair, rate := range rates {
		d, err := decimal.NewFromString(rate)
		if err != nil || !d.IsPositive() {
			continue
		}
		t[pair] = d
	}
	return t
}

// Rate returns the direct rate, else the inverse of the reverse entry,
// else exactly one.
func (t RateTable) Rate(from, to string) decimal.Decimal {
	if r, ok := t[from+"_"+to]; ok {
		return r
	}
	if r, ok := t[to+"_"+from]; ok {
		return decimal.NewFromInt(1).Div(r)
	}
	return decimal.NewFromInt(1)
}

// FallbackPricer fabricates a quote from the static rate table
type FallbackPricer struct {
	rates         RateTable
	feeMultiplier decimal.Decimal
	registry      *entities.TokenRegistry
}

// NewFallbackPricer creates a pricer charging 1-feeMultiplier on every swap
func NewFallbackPricer(rates RateTable, feeMultiplier decimal.Decimal, registry *entities.TokenRegistry) FallbackPricer {
	return FallbackPricer{
		rates:         rates,
		feeMultiplier: feeMultiplier,
		registry:      registry,
	}
}

// Quote always produces a quote once the request amount parses; it is
// flagged as simulated.
func (f FallbackPricer) Quote(dex entities.DEXType, req entities.QuoteRequest) (*entities.Quote, error) {
	raw, ok := entities.ParseAmount(req.InputAmount)
	if !ok || !raw.IsPositive() {
		return nil, entities.ErrInvalidAmount
	}

	from := f.registry.SymbolFor(req.InputToken)
	to := f.registry.SymbolFor(req.OutputToken)

	amountIn := entities.FromSmallestUnit(raw, f.registry.DecimalsFor(req.InputToken))
	out := amountIn.Mul(f.rates.Rate(from, to)).Mul(f.feeMultiplier)

	// 0.998 -> 20 bps
	feeBps := decimal.NewFromInt(1).Sub(f.feeMultiplier).Shift(4)

	return &entities.Quote{
		DEX:          dex,
		OutputAmount: out.StringFixed(6),
		Fee:          feeBps.String(),
		PriceImpact:  "0",
		Route:        []string{from, to},
		Simulated:    true,
	}, nil
}
