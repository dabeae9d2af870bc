package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"familyledger/internal/advisory"
	"familyledger/internal/config"
	apphttp "familyledger/internal/http"
	"familyledger/internal/ledger"
	"familyledger/internal/log"
	"familyledger/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Seed categories from DATA_DIR when a seed file is present.
	cats := ledger.CategoriesFromFile(filepath.Join(cfg.DataDir, "categories.txt"))
	store := ledger.NewSeededWith(cats)
	if len(cats) > 0 {
		logger.Info("Loaded category seed file", "categories", len(cats), "data_dir", cfg.DataDir)
	}

	analyzer := advisory.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	if cfg.AdvisoryConfigured() {
		logger.Info("Advisory client configured", "model", cfg.GeminiModel)
	} else {
		logger.Warn("Advisory client not configured, analysis requests will explain how to enable it")
	}

	ledgerService := services.NewLedgerService(store)
	advisoryService := services.NewAdvisoryService(store, analyzer)

	srv := apphttp.NewServer(":"+cfg.Port, ledgerService, advisoryService)
	srv.ReadTimeout = cfg.ReadTimeout
	srv.WriteTimeout = cfg.WriteTimeout
	srv.IdleTimeout = cfg.IdleTimeout
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting familyledger server", "port", cfg.Port, log.FieldOperation, log.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully", log.FieldOperation, log.OpShutdown)
}
