package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"finance-app/internal/config"
	"finance-app/internal/database"
	"finance-app/internal/logging"
	"finance-app/internal/middleware"
	"finance-app/internal/repositories"
	"finance-app/internal/server"
	"finance-app/internal/services"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()
	logger := logging.New(cfg, os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	metrics := services.NewPrometheusMetrics(prometheus.DefaultRegisterer)

	categoryRepo := repositories.NewCategoryRepository(db.DB)
	transactionRepo := repositories.NewTransactionRepository(db.DB)

	importService := services.NewImportServiceFromConfig(cfg.Import, categoryRepo, transactionRepo, metrics, logger)
	categoryService := services.NewCategoryService(categoryRepo, metrics, logger)
	transactionService := services.NewTransactionService(transactionRepo, categoryRepo, metrics, logger)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit)
	go rateLimiter.Run(ctx)

	e := server.New(server.Options{
		Config:       cfg,
		Health:       db,
		Imports:      importService,
		Categories:   categoryService,
		Transactions: transactionService,
		RateLimiter:  rateLimiter,
		Gatherer:     prometheus.DefaultGatherer,
		Logger:       logger,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      e,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("starting API server", "addr", srv.Addr, "env", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
