package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phasegames/tempo/internal/api"
	"github.com/phasegames/tempo/internal/config"
	"github.com/phasegames/tempo/internal/store"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	if err := config.Load(); err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()

	// Snapshot persistence is optional: without DATABASE_URL the
	// controller runs purely in memory.
	var pool *pgxpool.Pool
	if dbURL := config.DatabaseURL(); dbURL != "" {
		var err error
		pool, err = pgxpool.New(ctx, dbURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("failed to ping database", zap.Error(err))
		}
		if err := store.NewSnapshotStore(pool).EnsureSchema(ctx); err != nil {
			logger.Fatal("failed to ensure snapshot schema", zap.Error(err))
		}
		logger.Info("connected to database")
	} else {
		logger.Info("no DATABASE_URL configured, snapshots disabled")
	}

	app, err := api.NewApp(pool, logger)
	if err != nil {
		logger.Fatal("failed to build app", zap.Error(err))
	}

	if app.Archiver != nil {
		if err := app.Archiver.Restore(ctx); err != nil {
			logger.Warn("snapshot restore failed", zap.Error(err))
		}
		app.Archiver.Start()
	}

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:    addr,
		Handler: app.Router,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	if app.Archiver != nil {
		app.Archiver.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
