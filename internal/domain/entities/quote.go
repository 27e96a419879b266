package entities

import (
	"github.com/shopspring/decimal"
)

// DEXType identifies a liquidity source
type DEXType string

const (
	DEXLiquidswap  DEXType = "liquidswap"
	DEXPancakeSwap DEXType = "pancakeswap"
	DEXAries       DEXType = "aries"
	DEXPanora      DEXType = "panora"
)

// QuoteRequest asks every source for the output of swapping InputAmount
// (smallest units) of InputToken into OutputToken.
type QuoteRequest struct {
	InputToken  string `json:"inputToken"`
	OutputToken string `json:"outputToken"`
	InputAmount string `json:"inputAmount"`
}

// Validate checks the request shape. Token identifiers are opaque and are
// not checked against the registry.
func (r QuoteRequest) Validate() error {
	if r.InputToken == "" || r.OutputToken == "" || r.InputAmount == "" {
		return ErrMissingParams
	}
	if !IsPositiveInteger(r.InputAmount) {
		return ErrInvalidAmount
	}
	return nil
}

// Quote is a single source's claimed result for a swap.
// OutputAmount is in display units of the output token, Fee in basis points
// and PriceImpact in percent.
type Quote struct {
	DEX          DEXType  `json:"dex"`
	OutputAmount string   `json:"outputAmount"`
	Fee          string   `json:"fee"`
	PriceImpact  string   `json:"priceImpact"`
	Route        []string `json:"route"`
	// Simulated marks quotes priced from the static fallback table rather
	// than live liquidity.
	Simulated bool `json:"simulated"`
}

// Output returns the numeric output amount; non-numeric values count as zero
func (q Quote) Output() decimal.Decimal {
	d, _ := ParseAmount(q.OutputAmount)
	return d
}

// SelectBest returns the quote with the largest output amount.
// The first quote seeds the scan and only a strictly greater output replaces
// the running best, so ties resolve to the earliest quote and a list with no
// positive output returns its first element.
func SelectBest(quotes []Quote) (*Quote, bool) {
	if len(quotes) == 0 {
		return nil, false
	}

	best := 0
	bestOut := quotes[0].Output()
	for i := 1; i < len(quotes); i++ {
		out := quotes[i].Output()
		if out.GreaterThan(bestOut) {
			best = i
			bestOut = out
		}
	}

	q := quotes[best]
	return &q, true
}
