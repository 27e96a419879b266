package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bimakw/aptos-dex-aggregator/internal/app"
	"github.com/bimakw/aptos-dex-aggregator/internal/config"
	"github.com/bimakw/aptos-dex-aggregator/internal/domain/services"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/aptos"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/cache"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/logging"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/metrics"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/pricefeed"
	"github.com/bimakw/aptos-dex-aggregator/internal/presentation/handlers"
	"github.com/bimakw/aptos-dex-aggregator/internal/session"
)

const (
	version = "0.3.0"
)

func main() {
	cfg, err := config.Load(getEnv("CONFIG_FILE", ""))
	if err != nil {
		bootLog := logging.New("info", false)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}
	log := logging.New(cfg.Server.LogLevel, cfg.Server.LogPretty)

	// Initialize Aptos client
	node, err := aptos.NewClient(cfg.Aptos.NodeURL)
	if err != nil {
		log.Fatal().Err(err).Str("node", cfg.Aptos.NodeURL).Msg("failed to connect to Aptos node")
	}
	log.Info().Str("network", node.Network()).Msg("connected to Aptos")

	// Initialize cache and session store
	var (
		cacheClient  cache.Cache
		sessionStore cache.SessionStore
	)
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, using in-memory cache")
			cacheClient = cache.NewInMemoryCache()
			sessionStore = cache.NewInMemorySessionStore()
		} else {
			defer redisCache.Close()
			cacheClient = redisCache
			sessionStore = cache.NewRedisSessionStore(redisCache.Client())
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	} else {
		cacheClient = cache.NewInMemoryCache()
		sessionStore = cache.NewInMemorySessionStore()
		log.Info().Msg("using in-memory cache")
	}

	registry := app.LoadRegistry(cfg, log)

	// Initialize services
	aggregator := app.NewAggregator(cfg, node, registry, cacheClient, log)
	execution := services.NewExecutionService(app.ExecutionConfig(cfg), log)
	if cfg.Execution.AggregatorAddress == "" {
		log.Warn().Msg("execution.aggregator_address not set, swap payloads will be rejected")
	}
	feed := pricefeed.NewCoinGeckoClient(cfg.Market.PriceAPIURL, cfg.Market.APIKey)
	market := services.NewMarketService(feed, registry, cacheClient, cfg.Market.RefreshInterval, log)
	watcher := services.NewQuoteWatcher(aggregator, cfg.Stream.RefreshInterval, log)
	sessions := session.NewManager(sessionStore, cfg.Session.TTL, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go market.Run(ctx)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(version, node)
	quoteHandler := handlers.NewQuoteHandler(aggregator)
	streamHandler := handlers.NewStreamHandler(watcher, log)
	swapHandler := handlers.NewSwapHandler(execution, aggregator, registry, node)
	marketHandler := handlers.NewMarketHandler(market, registry)
	sessionHandler := handlers.NewSessionHandler(sessions)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(logging.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)
	r.Use(sessions.Middleware)

	// Routes
	r.Get("/health", healthHandler.Health)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Long-lived; must not sit behind the request timeout
		r.Get("/quotes/stream", streamHandler.Stream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

			r.Post("/quotes", quoteHandler.Quotes)
			r.Post("/quotes/best", quoteHandler.BestQuote)
			r.Post("/swap/payload", swapHandler.BuildPayload)

			r.Get("/market", marketHandler.Overview)
			r.Get("/market/{symbol}", marketHandler.Price)
			r.Get("/tokens", marketHandler.Tokens)

			r.Post("/session", sessionHandler.Login)
			r.Get("/session", sessionHandler.Current)
			r.Delete("/session", sessionHandler.Logout)
		})
	})

	// Start server
	server := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("version", version).Str("port", cfg.Server.Port).Msg("starting Aptos DEX Aggregator API")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	log.Info().Msg("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+session.HeaderName)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
