package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/eshaffer321/splitwise-sync/internal/api"
	"github.com/eshaffer321/splitwise-sync/internal/infrastructure/config"
	"github.com/eshaffer321/splitwise-sync/internal/infrastructure/storage"
)

const shutdownTimeout = 30 * time.Second

// RunServe runs the history API server until ctx is cancelled.
func RunServe(ctx context.Context, cfg *config.Config, flags *ServeFlags, logger *slog.Logger) error {
	// A nil interface, not a nil *Storage, keeps the 503 path working
	var repo storage.Repository
	if cfg.Storage.Enabled {
		store, err := storage.NewStorage(cfg.Storage.DatabasePath)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		repo = store
	} else {
		logger.Warn("storage disabled, history endpoints will return 503")
	}

	apiCfg := api.DefaultConfig()
	apiCfg.Port = flags.Port
	if len(cfg.API.AllowedOrigins) > 0 {
		apiCfg.AllowedOrigins = cfg.API.AllowedOrigins
	}

	server := api.NewServer(apiCfg, repo, logger)

	// Handle graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		logger.Info("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
	}()

	// Start server (blocks until shutdown)
	if err := server.Start(); err != nil {
		return err
	}

	<-done
	logger.Info("server stopped")
	return nil
}
