package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/cache"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/dex"
)

// MockQuoteSource is a mock implementation of QuoteSource for testing
type MockQuoteSource struct {
	name  entities.DEXType
	quote *entities.Quote
	err   error
	delay time.Duration
	panic bool
	calls int32
}

func NewMockQuoteSource(name entities.DEXType, output string) *MockQuoteSource {
	return &MockQuoteSource{
		name: name,
		quote: &entities.Quote{
			DEX:          name,
			OutputAmount: output,
			Fee:          "30",
			PriceImpact:  "0",
			Route:        []string{"APT", "USDC"},
		},
	}
}

func (m *MockQuoteSource) SetError(err error) {
	m.err = err
}

func (m *MockQuoteSource) Name() entities.DEXType {
	return m.name
}

func (m *MockQuoteSource) Quote(ctx context.Context, req entities.QuoteRequest) (*entities.Quote, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.panic {
		panic("boom")
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	q := *m.quote
	return &q, nil
}

func (m *MockQuoteSource) Calls() int {
	return int(atomic.LoadInt32(&m.calls))
}

var testRequest = entities.QuoteRequest{
	InputToken:  "0x1::aptos_coin::AptosCoin",
	OutputToken: "USDC",
	InputAmount: "100000000",
}

func TestGetQuotesKeepsSourceOrder(t *testing.T) {
	slow := NewMockQuoteSource(entities.DEXLiquidswap, "5.10")
	slow.delay = 30 * time.Millisecond
	pancake := NewMockQuoteSource(entities.DEXPancakeSwap, "5.12")
	aries := NewMockQuoteSource(entities.DEXAries, "5.159660")
	aries.quote.Simulated = true

	svc := NewAggregatorService([]dex.QuoteSource{slow, pancake, aries}, nil, zerolog.Nop())

	quotes, err := svc.GetQuotes(context.Background(), testRequest)
	require.NoError(t, err)
	require.Len(t, quotes, 3)
	assert.Equal(t, entities.DEXLiquidswap, quotes[0].DEX)
	assert.Equal(t, entities.DEXPancakeSwap, quotes[1].DEX)
	assert.Equal(t, entities.DEXAries, quotes[2].DEX)
	assert.True(t, quotes[2].Simulated)
}

func TestGetQuotesOmitsFailingSources(t *testing.T) {
	failing := NewMockQuoteSource(entities.DEXLiquidswap, "5.10")
	failing.SetError(errors.New("view function not found"))
	panicking := NewMockQuoteSource(entities.DEXPancakeSwap, "5.12")
	panicking.panic = true
	panora := NewMockQuoteSource(entities.DEXPanora, "5.160694")

	svc := NewAggregatorService([]dex.QuoteSource{failing, panicking, panora}, nil, zerolog.Nop())

	quotes, err := svc.GetQuotes(context.Background(), testRequest)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, entities.DEXPanora, quotes[0].DEX)
}

func TestGetQuotesTotalFailureIsEmptyList(t *testing.T) {
	a := NewMockQuoteSource(entities.DEXLiquidswap, "1")
	a.SetError(errors.New("network down"))
	b := NewMockQuoteSource(entities.DEXPancakeSwap, "1")
	b.SetError(errors.New("network down"))

	svc := NewAggregatorService([]dex.QuoteSource{a, b}, nil, zerolog.Nop())

	quotes, err := svc.GetQuotes(context.Background(), testRequest)
	require.NoError(t, err)
	assert.NotNil(t, quotes)
	assert.Empty(t, quotes)
}

func TestGetQuotesAtMostOnePerDEX(t *testing.T) {
	first := NewMockQuoteSource(entities.DEXAries, "5.0")
	dup := NewMockQuoteSource(entities.DEXAries, "6.0")

	svc := NewAggregatorService([]dex.QuoteSource{first, dup}, nil, zerolog.Nop())

	quotes, err := svc.GetQuotes(context.Background(), testRequest)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "5.0", quotes[0].OutputAmount)
}

func TestGetQuotesValidation(t *testing.T) {
	source := NewMockQuoteSource(entities.DEXLiquidswap, "5")
	svc := NewAggregatorService([]dex.QuoteSource{source}, nil, zerolog.Nop())

	_, err := svc.GetQuotes(context.Background(), entities.QuoteRequest{InputToken: "APT", OutputToken: "USDC"})
	assert.ErrorIs(t, err, entities.ErrMissingParams)

	_, err = svc.GetQuotes(context.Background(), entities.QuoteRequest{InputToken: "APT", OutputToken: "USDC", InputAmount: "1.5"})
	assert.ErrorIs(t, err, entities.ErrInvalidAmount)

	assert.Equal(t, 0, source.Calls(), "invalid requests must not reach sources")
}

func TestGetQuotesUsesCache(t *testing.T) {
	source := NewMockQuoteSource(entities.DEXLiquidswap, "5.17")
	svc := NewAggregatorService([]dex.QuoteSource{source}, cache.NewInMemoryCache(), zerolog.Nop())

	for i := 0; i < 3; i++ {
		quotes, err := svc.GetQuotes(context.Background(), testRequest)
		require.NoError(t, err)
		require.Len(t, quotes, 1)
	}
	assert.Equal(t, 1, source.Calls())

	svc.SetCacheTTL(0)
	_, err := svc.GetQuotes(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Equal(t, 2, source.Calls())
}

func TestGetQuotesDoesNotCacheEmptyResults(t *testing.T) {
	source := NewMockQuoteSource(entities.DEXLiquidswap, "5.17")
	source.SetError(errors.New("temporarily down"))
	svc := NewAggregatorService([]dex.QuoteSource{source}, cache.NewInMemoryCache(), zerolog.Nop())

	_, _ = svc.GetQuotes(context.Background(), testRequest)
	source.SetError(nil)

	quotes, err := svc.GetQuotes(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Len(t, quotes, 1)
}

func TestGetQuotesCancelled(t *testing.T) {
	slow := NewMockQuoteSource(entities.DEXLiquidswap, "5")
	slow.delay = time.Second
	svc := NewAggregatorService([]dex.QuoteSource{slow}, nil, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := svc.GetQuotes(ctx, testRequest)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGetBestQuote(t *testing.T) {
	tests := []struct {
		name     string
		outputs  []string
		wantBest entities.DEXType
	}{
		{"largest wins", []string{"5.10", "5.20", "5.15"}, entities.DEXPancakeSwap},
		{"tie keeps first", []string{"10", "10", "9"}, entities.DEXLiquidswap},
		{"zero never beats positive", []string{"0", "abc", "1"}, entities.DEXAries},
	}

	names := []entities.DEXType{entities.DEXLiquidswap, entities.DEXPancakeSwap, entities.DEXAries}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sources := make([]dex.QuoteSource, len(tt.outputs))
			for i, out := range tt.outputs {
				sources[i] = NewMockQuoteSource(names[i], out)
			}
			svc := NewAggregatorService(sources, nil, zerolog.Nop())

			best, quotes, err := svc.GetBestQuote(context.Background(), testRequest)
			require.NoError(t, err)
			require.NotNil(t, best)
			assert.Len(t, quotes, len(tt.outputs))
			assert.Equal(t, tt.wantBest, best.DEX)
		})
	}
}

func TestGetBestQuoteNone(t *testing.T) {
	source := NewMockQuoteSource(entities.DEXLiquidswap, "5")
	source.SetError(errors.New("down"))
	svc := NewAggregatorService([]dex.QuoteSource{source}, nil, zerolog.Nop())

	best, quotes, err := svc.GetBestQuote(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Nil(t, best)
	assert.Empty(t, quotes)
}
