package dex

import (
	"context"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
)

// PancakeSwapAddress is the PancakeSwap AMM deployment on Aptos mainnet
const PancakeSwapAddress = "0xc7efb4076dbe143cbcd98cfaaa929ecfc8f299203dfff63b95ccb6bfe19850fa"

// PancakeSwapClient quotes through PancakeSwap view functions
type PancakeSwapClient struct {
	viewSource
}

func NewPancakeSwapClient(caller ViewCaller, registry *entities.TokenRegistry, address string) *PancakeSwapClient {
	if address == "" {
		address = PancakeSwapAddress
	}
	return &PancakeSwapClient{viewSource{
		name:     entities.DEXPancakeSwap,
		caller:   caller,
		registry: registry,
		address:  address,
		candidates: []viewCandidate{
			{Module: "router", Function: "get_amounts_out"},
			{Module: "swap_utils", Function: "get_amount_out"},
			{Module: "swap", Function: "get_amount_out"},
		},
		feeBps: "25", // 0.25%
	}}
}

// Quote returns the on-chain quote; there is no fallback
func (c *PancakeSwapClient) Quote(ctx context.Context, req entities.QuoteRequest) (*entities.Quote, error) {
	return c.quoteOnChain(ctx, req)
}
