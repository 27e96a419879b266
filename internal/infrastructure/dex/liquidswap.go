package dex

import (
	"context"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
)

// LiquidswapAddress is the Pontem Liquidswap v0 deployment on Aptos mainnet
const LiquidswapAddress = "0x190d44266241744264b964a37b8f09863167a12d3e70cda39376cfb4e3561e12"

// LiquidswapClient quotes through Liquidswap router view functions
type LiquidswapClient struct {
	viewSource
}

// NewLiquidswapClient creates a Liquidswap client. Uncorrelated curves are
// tried before stable curves.
func NewLiquidswapClient(caller ViewCaller, registry *entities.TokenRegistry, address string) *LiquidswapClient {
	if address == "" {
		address = LiquidswapAddress
	}
	return &LiquidswapClient{viewSource{
		name:     entities.DEXLiquidswap,
		caller:   caller,
		registry: registry,
		address:  address,
		candidates: []viewCandidate{
			{Module: "router", Function: "get_amount_out", ExtraTypeArgs: []string{address + "::curves::Uncorrelated"}},
			{Module: "router", Function: "get_amount_out", ExtraTypeArgs: []string{address + "::curves::Stable"}},
			{Module: "router_v2", Function: "get_amount_out", ExtraTypeArgs: []string{address + "::curves::Uncorrelated"}},
		},
		feeBps: "30", // 0.3%
	}}
}

// Quote returns the on-chain quote; there is no fallback
func (c *LiquidswapClient) Quote(ctx context.Context, req entities.QuoteRequest) (*entities.Quote, error) {
	return c.quoteOnChain(ctx, req)
}
