package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bakehouse/internal/auth"
	"bakehouse/internal/cache"
	"bakehouse/internal/config"
	"bakehouse/internal/database"
	"bakehouse/internal/handler"
	"bakehouse/internal/repository"
	"bakehouse/internal/router"
	"bakehouse/internal/seed"
	"bakehouse/internal/service"

	"github.com/redis/go-redis/v9"
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
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting bakehouse API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to the document store
	client, db, err := database.Connect(ctx, cfg.Mongo, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to store: %w", err)
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer disconnectCancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from store")
		}
	}()

	if err := database.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("failed to ensure indexes: %w", err)
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(db, logger)
	orderRepo := repository.NewOrderRepository(db, logger)
	cartRepo := repository.NewCartRepository(db, logger)

	// Optional cart cache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("redis unreachable, running without cart cache")
		} else {
			cartRepo = repository.NewCachedCartRepository(cartRepo, cache.NewRedisCache(redisClient), logger)
			logger.Info().Str("addr", cfg.Redis.Addr).Msg("cart cache enabled")
		}
	}

	// Seed the catalogue when enabled and empty
	if cfg.Seed.Enabled {
		var loader seed.Loader
		if cfg.Seed.S3 {
			loader, err = seed.NewS3Loader(ctx, cfg.Seed.Bucket, cfg.Seed.Region, cfg.Seed.Key, logger)
			if err != nil {
				logger.Warn().Err(err).Msg("failed to initialise S3 loader, falling back to local fixture file")
				loader = seed.NewFileLoader(cfg.Seed.FilePath, logger)
			}
		} else {
			loader = seed.NewFileLoader(cfg.Seed.FilePath, logger)
		}

		if err := seed.Run(ctx, loader, productRepo, logger); err != nil {
			logger.Warn().Err(err).Msg("catalogue seeding failed, continuing with existing catalogue")
		}
	}

	// Initialize services
	notifier := service.NewLogNotifier(logger)
	catalogService := service.NewCatalogService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, catalogService, notifier, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, catalogService, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(catalogService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)

	// Token verification for the auth boundary
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Initialize router
	mux := router.New(productHandler, cartHandler, orderHandler, tokens, logger)

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
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
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
