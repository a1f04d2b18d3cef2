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

	"kiosk-checkout/internal/catalog"
	"kiosk-checkout/internal/checkout"
	"kiosk-checkout/internal/config"
	"kiosk-checkout/internal/coupon"
	"kiosk-checkout/internal/database"
	"kiosk-checkout/internal/handler"
	"kiosk-checkout/internal/metrics"
	"kiosk-checkout/internal/payment"
	"kiosk-checkout/internal/receipt"
	"kiosk-checkout/internal/router"
	"kiosk-checkout/internal/scheduler"
	"kiosk-checkout/internal/service"
	"kiosk-checkout/internal/tracing"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("catalog", cfg.Catalog.Source).Msg("starting kiosk checkout server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error().Err(err).Msg("failed to flush traces")
		}
	}()

	products, closeCatalog, err := openCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCatalog()

	m := metrics.New()

	session := checkout.NewSession(
		products,
		coupon.NewDefaultResolver(),
		payment.NewSimulator(logger),
		scheduler.NewTicker(logger),
		checkout.Timing{
			RefocusInterval:     cfg.Kiosk.RefocusInterval,
			CardInsertTick:      cfg.Kiosk.CardInsertTick,
			CardInsertStep:      cfg.Kiosk.CardInsertStep,
			CardCompletionDelay: cfg.Kiosk.CardCompletionDelay,
		},
		logger,
		checkout.WithStoreName(cfg.Kiosk.StoreName),
		checkout.WithFocusHandler(func(target checkout.FocusTarget) {
			logger.Trace().Str("focus", string(target)).Msg("scanner focus asserted")
		}),
		checkout.WithPaymentHandler(func(r receipt.Receipt) {
			m.ObservePayment(r.Payment.Method, r.Total)
		}),
	)
	defer session.Close()

	productService := service.NewProductService(products, logger)
	kioskService := service.NewKioskService(session, m, logger)

	productHandler := handler.NewProductHandler(productService, logger)
	sessionHandler := handler.NewSessionHandler(kioskService, logger)

	mux := router.New(productHandler, sessionHandler, cfg.Auth.APIKey, cfg.RateLimit, m, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// openCatalog builds the configured product source. The returned func
// releases any connection it holds.
func openCatalog(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (catalog.Catalog, func(), error) {
	noop := func() {}

	switch cfg.Catalog.Source {
	case config.CatalogFile:
		products, err := catalog.NewFileLoader(logger).Load(ctx, cfg.Catalog.FilePath)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to load catalog file: %w", err)
		}
		return catalog.NewMemoryCatalog(products), noop, nil

	case config.CatalogS3:
		var s3Loader catalog.Loader
		loader, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = loader
		}

		fallback := catalog.NewFallbackLoader(s3Loader, catalog.NewFileLoader(logger), cfg.S3.Key, logger)
		products, err := fallback.Load(ctx, cfg.Catalog.FilePath)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to load catalog: %w", err)
		}
		return catalog.NewMemoryCatalog(products), noop, nil

	case config.CatalogPostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := database.Migrate(ctx, pool, logger, catalog.Schema); err != nil {
			pool.Close()
			return nil, noop, err
		}
		if cfg.Database.Seed {
			if err := catalog.Seed(ctx, pool, catalog.DefaultProducts()); err != nil {
				pool.Close()
				return nil, noop, fmt.Errorf("failed to seed catalog: %w", err)
			}
			logger.Info().Msg("catalog seeded with default products")
		}
		return catalog.NewPostgresCatalog(pool, logger), pool.Close, nil
	}

	logger.Info().Msg("using built-in catalog")
	return catalog.NewMemoryCatalog(catalog.DefaultProducts()), noop, nil
}
