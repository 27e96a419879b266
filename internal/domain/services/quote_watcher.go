package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
)

// DefaultQuoteRefresh is how often a watched request is re-aggregated
const DefaultQuoteRefresh = 30 * time.Second

// QuoteFetcher aggregates quotes for one request
type QuoteFetcher interface {
	GetQuotes(ctx context.Context, req entities.QuoteRequest) ([]entities.Quote, error)
}

// QuoteUpdate is one round of a watched request
type QuoteUpdate struct {
	Request entities.QuoteRequest `json:"request"`
	Quotes  []entities.Quote      `json:"quotes"`
	Best    *entities.Quote       `json:"best"`
	At      time.Time             `json:"at"`
}

// QuoteWatcher re-aggregates a request on a fixed interval
type QuoteWatcher struct {
	fetcher  QuoteFetcher
	interval time.Duration
	log      zerolog.Logger
}

func NewQuoteWatcher(fetcher QuoteFetcher, interval time.Duration, log zerolog.Logger) *QuoteWatcher {
	if interval <= 0 {
		interval = DefaultQuoteRefresh
	}
	return &QuoteWatcher{
		fetcher:  fetcher,
		interval: interval,
		log:      log.With().Str("component", "watcher").Logger(),
	}
}

// Watch aggregates req now and then on every tick, passing each round to
// emit, until ctx is cancelled. An empty input amount watches nothing.
// Rounds finishing after cancellation are dropped, never emitted.
func (w *QuoteWatcher) Watch(ctx context.Context, req entities.QuoteRequest, emit func(QuoteUpdate)) error {
	if req.InputAmount == "" {
		return nil
	}
	if err := req.Validate(); err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		quotes, err := w.fetcher.GetQuotes(ctx, req)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			w.log.Warn().Err(err).Msg("watched aggregation failed")
		} else {
			best, _ := entities.SelectBest(quotes)
			emit(QuoteUpdate{Request: req, Quotes: quotes, Best: best, At: time.Now()})
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
