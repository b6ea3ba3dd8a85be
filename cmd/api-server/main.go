package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"pinduca/database"
	"pinduca/internal/cache"
	"pinduca/internal/config"
	"pinduca/internal/logging"
	"pinduca/internal/microservices/http-api/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.IsDevelopment())
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to the database
	db, err := database.OpenGorm(ctx, cfg.DatabaseURL, database.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		LogQueries:      cfg.IsDevelopment() && cfg.LogLevel == "debug",
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn("closing database", zap.Error(err))
		}
	}()

	if cfg.AutoMigrate {
		if err := database.MigrateUp(ctx, db); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	// 3. Optional catalog cache
	var comicCache cache.ComicCache = cache.Nop{}
	if cfg.UseRedisCache() {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, serving without cache", zap.Error(err))
		} else {
			defer func() { _ = client.Close() }()
			comicCache = cache.NewRedisComicCache(client, cfg.CacheTTL, logger)
			logger.Info("comic cache enabled", zap.Duration("ttl", cfg.CacheTTL))
		}
	}

	// 4. Serve
	router := server.NewRouter(server.NewServices(db, comicCache, cfg), cfg, logger)
	if err := server.Run(ctx, router, cfg, logger); err != nil {
		return err
	}
	logger.Info("server stopped gracefully")
	return nil
}
