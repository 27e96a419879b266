package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Source outcomes
const (
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
)

var (
	SourceQuotesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "aggregator_source_quotes_total", Help: "Quote source calls by outcome"},
		[]string{"dex", "outcome"},
	)
	AggregationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aggregator_aggregation_duration_seconds",
			Help:    "Time to collect quotes from every source",
			Buckets: prometheus.DefBuckets,
		},
	)
	QuoteCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "aggregator_quote_cache_total", Help: "Quote cache lookups"},
		[]string{"result"},
	)
	SwapAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "aggregator_swap_attempts_total", Help: "Swap attempts by final state"},
		[]string{"state"},
	)
	MarketRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "aggregator_market_refresh_total", Help: "Market price refreshes"},
		[]string{"outcome"},
	)
	StreamClients = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "aggregator_stream_clients", Help: "Open quote stream connections"},
	)
)

func init() {
	prometheus.MustRegister(SourceQuotesTotal, AggregationDuration, QuoteCacheTotal, SwapAttemptsTotal, MarketRefreshTotal, StreamClients)
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
