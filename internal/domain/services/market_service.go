package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/cache"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/metrics"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/pricefeed"
)

// DefaultMarketRefresh is the market overview refresh cadence
const DefaultMarketRefresh = 60 * time.Second

var errNoPricedTokens = errors.New("no registry token has a price id")

// PriceFeed returns USD prices keyed by price-index id
type PriceFeed interface {
	Prices(ctx context.Context, ids []string) (map[string]pricefeed.Price, error)
}

// MarketService keeps a USD price table for registry tokens
type MarketService struct {
	feed     PriceFeed
	registry *entities.TokenRegistry
	cache    cache.Cache
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time

	mu       sync.RWMutex
	snapshot []entities.MarketPrice
}

func NewMarketService(feed PriceFeed, registry *entities.TokenRegistry, c cache.Cache, interval time.Duration, log zerolog.Logger) *MarketService {
	if interval <= 0 {
		interval = DefaultMarketRefresh
	}
	return &MarketService{
		feed:     feed,
		registry: registry,
		cache:    c,
		interval: interval,
		log:      log.With().Str("component", "market").Logger(),
		now:      time.Now,
	}
}

// Refresh fetches prices for every registry token with a price id. The
// previous snapshot is kept when the fetch fails.
func (s *MarketService) Refresh(ctx context.Context) error {
	tokens := s.registry.GetAll()
	ids := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t.CoingeckoID != "" {
			ids = append(ids, t.CoingeckoID)
		}
	}
	if len(ids) == 0 {
		return errNoPricedTokens
	}

	prices, err := s.feed.Prices(ctx, ids)
	if err != nil {
		metrics.MarketRefreshTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return err
	}

	now := s.now()
	snapshot := make([]entities.MarketPrice, 0, len(tokens))
	for _, t := range tokens {
		p, ok := prices[t.CoingeckoID]
		if !ok || t.CoingeckoID == "" {
			continue
		}
		row := entities.MarketPrice{
			Symbol:    t.Symbol,
			Name:      t.Name,
			PriceUSD:  p.USD.String(),
			Change24h: p.Change24h.StringFixed(2),
			UpdatedAt: now,
		}
		snapshot = append(snapshot, row)

		if s.cache != nil {
			if err := s.cache.SetPrice(ctx, cache.PriceCacheKey(t.Symbol), row.PriceUSD, 2*s.interval); err != nil {
				s.log.Warn().Err(err).Str("symbol", t.Symbol).Msg("failed to cache price")
			}
		}
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	metrics.MarketRefreshTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	s.log.Debug().Int("prices", len(snapshot)).Msg("market refreshed")
	return nil
}

// Run refreshes immediately and then on every tick until ctx is done
func (s *MarketService) Run(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
		s.log.Warn().Err(err).Msg("market refresh failed")
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
				s.log.Warn().Err(err).Msg("market refresh failed")
			}
		}
	}
}

// Snapshot returns the latest table in registry order
func (s *MarketService) Snapshot() []entities.MarketPrice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.MarketPrice{}, s.snapshot...)
}

// Price looks symbol up in the snapshot, then in the shared cache
func (s *MarketService) Price(ctx context.Context, symbol string) (*entities.MarketPrice, bool) {
	symbol = strings.ToUpper(symbol)

	s.mu.RLock()
	for _, row := range s.snapshot {
		if row.Symbol == symbol {
			s.mu.RUnlock()
			return &row, true
		}
	}
	s.mu.RUnlock()

	if s.cache == nil {
		return nil, false
	}
	price, err := s.cache.GetPrice(ctx, cache.PriceCacheKey(symbol))
	if err != nil || price == "" {
		return nil, false
	}
	return &entities.MarketPrice{Symbol: symbol, PriceUSD: price}, true
}
