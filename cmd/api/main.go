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

	"item-compare/internal/catalog"
	"item-compare/internal/config"
	"item-compare/internal/database"
	"item-compare/internal/handler"
	"item-compare/internal/metrics"
	"item-compare/internal/repository"
	"item-compare/internal/router"
	"item-compare/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger, cfg.App)
	logger.Info().
		Str("catalog_source", cfg.Catalog.Source).
		Msg("starting item comparison API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the catalog source
	loader, location, closeSource, err := newCatalogSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	// Load the catalog; any invalid record aborts startup
	store, err := catalog.NewStore(ctx, loader, location, cfg.Catalog.DefaultCurrency, logger)
	if err != nil {
		return fmt.Errorf("failed to load product catalog: %w", err)
	}

	// Initialize metrics
	var (
		m        *metrics.Metrics
		recorder handler.ReloadRecorder
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.NewMetrics(reg)
		m.SetCatalogSize(store.Len())
		recorder = m
	}

	// Initialize services
	productService := service.NewProductService(store, service.CompareBounds{
		Min: cfg.Compare.MinItems,
		Max: cfg.Compare.MaxItems,
	}, logger)

	routerOpts := router.Options{
		APIPrefix:      cfg.App.APIPrefix(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		APIKey:         cfg.Auth.APIKey,
		Metrics:        m,
	}
	if cfg.Auth.APIKey == "" {
		logger.Info().Msg("API_KEY not set, admin endpoints disabled")
	}

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Product: handler.NewProductHandler(productService, logger),
		Admin:   handler.NewAdminHandler(productService, recorder, logger),
		Info:    handler.NewInfoHandler(cfg.App, router.Endpoints(routerOpts)),
	}

	// Initialize router
	mux := router.New(handlers, routerOpts, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("api_prefix", cfg.App.APIPrefix()).
			Int("products", store.Len()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
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

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newCatalogSource picks the loader for the configured source and returns
// the location to load from plus a cleanup func.
func newCatalogSource(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (catalog.Loader, string, func(), error) {
	noop := func() {}

	switch cfg.Catalog.Source {
	case config.SourcePostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, "", noop, fmt.Errorf("failed to initialize database: %w", err)
		}
		return repository.NewProductRepository(pool, logger), cfg.Catalog.Table, pool.Close, nil

	case config.SourceS3:
		fileLoader := catalog.NewFileLoader(logger)

		s3Loader, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
			s3Loader = nil
		}
		return catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, logger), cfg.Catalog.Path, noop, nil

	default:
		logger.Info().Str("path", cfg.Catalog.Path).Msg("using local file system for the product catalog")
		return catalog.NewFileLoader(logger), cfg.Catalog.Path, noop, nil
	}
}
