package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/cache"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/dex"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/metrics"
)

// DefaultQuoteCacheTTL is short because view-call prices move every block
const DefaultQuoteCacheTTL = 10 * time.Second

// AggregatorService fans a quote request out to every source
type AggregatorService struct {
	sources  []dex.QuoteSource
	cache    cache.Cache
	cacheTTL time.Duration
	log      zerolog.Logger
}

func NewAggregatorService(sources []dex.QuoteSource, c cache.Cache, log zerolog.Logger) *AggregatorService {
	return &AggregatorService{
		sources:  sources,
		cache:    c,
		cacheTTL: DefaultQuoteCacheTTL,
		log:      log.With().Str("component", "aggregator").Logger(),
	}
}

// SetCacheTTL overrides the quote cache TTL; zero disables caching
func (s *AggregatorService) SetCacheTTL(ttl time.Duration) {
	s.cacheTTL = ttl
}

// SourceResult is one source's answer
type SourceResult struct {
	DEX   entities.DEXType
	Quote *entities.Quote
	Error error
}

// GetQuotes returns the successful quotes in source order, at most one per
// DEX. Failing sources are omitted; when every source fails the list is
// empty rather than an error. Only request validation and cancellation
// produce errors.
func (s *AggregatorService) GetQuotes(ctx context.Context, req entities.QuoteRequest) ([]entities.Quote, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := cache.QuoteCacheKey(req)
	if s.cache != nil && s.cacheTTL > 0 {
		if cached, err := s.cache.GetQuotes(ctx, key); err == nil && len(cached) > 0 {
			metrics.QuoteCacheTotal.WithLabelValues("hit").Inc()
			return cached, nil
		}
		metrics.QuoteCacheTotal.WithLabelValues("miss").Inc()
	}

	start := time.Now()
	results := s.collect(ctx, req)
	metrics.AggregationDuration.Observe(time.Since(start).Seconds())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	quotes := make([]entities.Quote, 0, len(results))
	seen := make(map[entities.DEXType]bool, len(results))
	for _, r := range results {
		if r.Error != nil || r.Quote == nil {
			continue
		}
		if seen[r.Quote.DEX] {
			continue
		}
		seen[r.Quote.DEX] = true
		quotes = append(quotes, *r.Quote)
	}

	if len(quotes) > 0 && s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.SetQuotes(ctx, key, quotes, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Msg("failed to cache quotes")
		}
	}

	s.log.Debug().
		Str("input", req.InputToken).
		Str("output", req.OutputToken).
		Str("amount", req.InputAmount).
		Int("quotes", len(quotes)).
		Dur("took", time.Since(start)).
		Msg("aggregated quotes")

	return quotes, nil
}

// GetBestQuote returns the best quote alongside the full list. Best is nil
// when no source answered.
func (s *AggregatorService) GetBestQuote(ctx context.Context, req entities.QuoteRequest) (*entities.Quote, []entities.Quote, error) {
	quotes, err := s.GetQuotes(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	best, ok := entities.SelectBest(quotes)
	if !ok {
		return nil, quotes, nil
	}
	return best, quotes, nil
}

// collect queries every source concurrently; results keep source order
func (s *AggregatorService) collect(ctx context.Context, req entities.QuoteRequest) []SourceResult {
	results := make([]SourceResult, len(s.sources))
	var wg sync.WaitGroup

	for i, source := range s.sources {
		wg.Add(1)
		go func(idx int, src dex.QuoteSource) {
			defer wg.Done()
			results[idx] = s.query(ctx, src, req)
		}(i, source)
	}

	wg.Wait()
	return results
}

func (s *AggregatorService) query(ctx context.Context, src dex.QuoteSource, req entities.QuoteRequest) (result SourceResult) {
	name := src.Name()
	result.DEX = name

	defer func() {
		if r := recover(); r != nil {
			result = SourceResult{DEX: name, Error: fmt.Errorf("%s panicked: %v", name, r)}
		}

		outcome := metrics.OutcomeOK
		switch {
		case result.Error != nil || result.Quote == nil:
			outcome = metrics.OutcomeError
			s.log.Debug().Err(result.Error).Str("dex", string(name)).Msg("source returned no quote")
		case result.Quote.Simulated:
			outcome = metrics.OutcomeFallback
		}
		metrics.SourceQuotesTotal.WithLabelValues(string(name), outcome).Inc()
	}()

	quote, err := src.Quote(ctx, req)
	if err != nil {
		return SourceResult{DEX: name, Error: err}
	}
	if quote == nil {
		return SourceResult{DEX: name, Error: fmt.Errorf("%s returned no quote", name)}
	}
	return SourceResult{DEX: name, Quote: quote}
}
