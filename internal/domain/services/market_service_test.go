package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/cache"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/pricefeed"
)

// MockPriceFeed serves fixed prices and counts calls
type MockPriceFeed struct {
	mu     sync.Mutex
	prices map[string]pricefeed.Price
	err    error
	calls  int
	ids    []string
}

func (m *MockPriceFeed) Prices(ctx context.Context, ids []string) (map[string]pricefeed.Price, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.ids = ids
	if m.err != nil {
		return nil, m.err
	}
	return m.prices, nil
}

func (m *MockPriceFeed) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func newMockFeed() *MockPriceFeed {
	return &MockPriceFeed{prices: map[string]pricefeed.Price{
		"aptos":    {USD: decimal.RequireFromString("5.17"), Change24h: decimal.RequireFromString("-2.456")},
		"usd-coin": {USD: decimal.RequireFromString("1.0001")},
	}}
}

func TestMarketRefresh(t *testing.T) {
	feed := newMockFeed()
	c := cache.NewInMemoryCache()
	svc := NewMarketService(feed, entities.DefaultRegistry(), c, time.Minute, zerolog.Nop())

	require.NoError(t, svc.Refresh(context.Background()))

	snapshot := svc.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "APT", snapshot[0].Symbol)
	assert.Equal(t, "5.17", snapshot[0].PriceUSD)
	assert.Equal(t, "-2.46", snapshot[0].Change24h)
	assert.Equal(t, "USDC", snapshot[1].Symbol)

	assert.ElementsMatch(t, []string{"aptos", "usd-coin", "tether", "weth", "pancakeswap-token"}, feed.ids)

	cached, err := c.GetPrice(context.Background(), cache.PriceCacheKey("APT"))
	require.NoError(t, err)
	assert.Equal(t, "5.17", cached)
}

func TestMarketRefreshKeepsSnapshotOnError(t *testing.T) {
	feed := newMockFeed()
	svc := NewMarketService(feed, entities.DefaultRegistry(), nil, time.Minute, zerolog.Nop())
	require.NoError(t, svc.Refresh(context.Background()))

	feed.err = errors.New("rate limited")
	assert.Error(t, svc.Refresh(context.Background()))
	assert.Len(t, svc.Snapshot(), 2)
}

func TestMarketPrice(t *testing.T) {
	c := cache.NewInMemoryCache()
	svc := NewMarketService(newMockFeed(), entities.DefaultRegistry(), c, time.Minute, zerolog.Nop())
	require.NoError(t, svc.Refresh(context.Background()))

	row, ok := svc.Price(context.Background(), "apt")
	require.True(t, ok)
	assert.Equal(t, "5.17", row.PriceUSD)

	// a price another replica cached is still served
	require.NoError(t, c.SetPrice(context.Background(), cache.PriceCacheKey("CAKE"), "2.35", time.Minute))
	row, ok = svc.Price(context.Background(), "CAKE")
	require.True(t, ok)
	assert.Equal(t, "2.35", row.PriceUSD)

	_, ok = svc.Price(context.Background(), "DOGE")
	assert.False(t, ok)
}

func TestMarketRefreshNoPricedTokens(t *testing.T) {
	registry := entities.NewTokenRegistry()
	registry.Register(entities.Token{Symbol: "FOO", TypeTag: "0x1::foo::FOO", Decimals: 8})

	svc := NewMarketService(newMockFeed(), registry, nil, time.Minute, zerolog.Nop())
	assert.Error(t, svc.Refresh(context.Background()))
}

func TestMarketRunRefreshesOnTicks(t *testing.T) {
	feed := newMockFeed()
	svc := NewMarketService(feed, entities.DefaultRegistry(), nil, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return feed.Calls() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
