package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/damon-houk/cnb-exchange-rates/internal/application/service"
	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/api"
	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/cache"
	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/db"
	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/handler"
	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/logger"
	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/middleware"
	"github.com/damon-houk/cnb-exchange-rates/internal/platform/config"
	"github.com/gorilla/mux"
)

func main() {
	bootLogger := logger.NewJSONLogger(os.Stdout, logger.InfoLevel)

	cfg, err := config.Load(bootLogger)
	if err != nil {
		bootLogger.Fatal("Failed to load configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log := logger.NewJSONLogger(os.Stdout, cfg.LogLevel)
	logger.SetDefaultLogger(log)

	log.Info("Starting CNB exchange rate service", map[string]interface{}{
		"port":      cfg.Port,
		"source":    cfg.CNBDailyURL,
		"cache_ttl": cfg.CacheTTL.String(),
		"snapshots": cfg.SnapshotEnabled,
	})

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		stop()
		log.Fatal("Server stopped", map[string]interface{}{"error": err.Error()})
	}
}

// run serves until ctx is cancelled or the listener fails. Every resource it opens is closed
// before it returns.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("invalid RATE_LIMIT %q: %w", cfg.RateLimit, err)
	}

	// Initialize API client
	cnbClient := api.NewCNBClient(
		api.WithBaseURL(cfg.CNBDailyURL),
		api.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		api.WithMaxRetries(cfg.FetchMaxRetries),
		api.WithLogger(log.WithField("component", "cnb_client")),
	)

	options := []service.ExchangeRateServiceOption{
		service.WithCache(cache.NewExchangeListCache(cfg.CacheTTL)),
	}

	// Setup BadgerDB for last-known-good snapshots
	if cfg.SnapshotEnabled {
		badgerDB, err := db.OpenBadger(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("failed to open database in %s: %w", cfg.DataDir, err)
		}
		defer func() {
			if err := badgerDB.Close(); err != nil {
				log.Error("Error closing BadgerDB", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}()

		options = append(options, service.WithSnapshots(db.NewBadgerExchangeListRepository(badgerDB)))
	}

	// Initialize services
	exchangeService := service.NewExchangeRateService(cnbClient, log.WithField("component", "exchange_service"), options...)
	conversionService := service.NewConversionService(exchangeService, log.WithField("component", "conversion_service"))

	// Initialize handlers
	exchangeHandler := handler.NewExchangeHandler(exchangeService, log)
	conversionHandler := handler.NewConversionHandler(conversionService, log)

	// Setup router
	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.RecoverMiddleware(log))
	router.Use(middleware.RateLimitMiddleware(rateLimiter, log))

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET")
	exchangeHandler.RegisterRoutes(router)
	conversionHandler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.HTTPTimeout*time.Duration(cfg.FetchMaxRetries+1) + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down", nil)
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
