package dex

import (
	"context"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
)

// AriesAddress is the Aries Markets deployment on Aptos mainnet
const AriesAddress = "0x9770fa9c725cbd97eb50b2be5f7416efdfd1f1554beb0750d4dae4c64e860da3"

// AriesClient quotes through Aries view functions and falls back to the
// static rate table when none of them answers.
type AriesClient struct {
	viewSource
	fallback FallbackPricer
}

func NewAriesClient(caller ViewCaller, registry *entities.TokenRegistry, address string, rates RateTable) *AriesClient {
	if address == "" {
		address = AriesAddress
	}
	return &AriesClient{
		viewSource: viewSource{
			name:     entities.DEXAries,
			caller:   caller,
			registry: registry,
			address:  address,
			candidates: []viewCandidate{
				{Module: "amm", Function: "get_amount_out"},
				{Module: "router", Function: "get_amount_out"},
				{Module: "swap", Function: "quote_exact_in"},
			},
			feeBps: "20", // 0.2%
		},
		fallback: NewFallbackPricer(rates, AriesFallbackMultiplier, registry),
	}
}

// Quote never fails for a well-formed request
func (c *AriesClient) Quote(ctx context.Context, req entities.QuoteRequest) (*entities.Quote, error) {
	quote, err := c.quoteOnChain(ctx, req)
	if err == nil {
		return quote, nil
	}
	return c.fallback.Quote(c.name, req)
}
