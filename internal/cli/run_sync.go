package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/eshaffer321/splitwise-sync/internal/application/sync"
	"github.com/eshaffer321/splitwise-sync/internal/domain/matcher"
	"github.com/eshaffer321/splitwise-sync/internal/infrastructure/config"
	"github.com/eshaffer321/splitwise-sync/internal/infrastructure/storage"
)

// SyncDeps are the collaborators of a sync command
type SyncDeps struct {
	Ledger   sync.Ledger
	Repo     storage.Repository // nil disables history
	Prompter sync.Prompter
	Logger   *slog.Logger
	Out      io.Writer
}

// RunSync runs one sync and prints its summary
func RunSync(ctx context.Context, cfg *config.Config, flags *SyncFlags, deps SyncDeps) (*sync.Result, error) {
	opts, err := flags.ToSyncOptions(cfg.Sync.ExpenseLimit)
	if err != nil {
		return nil, err
	}

	registry, err := NewSourceRegistry(flags.AccountName, deps.Logger)
	if err != nil {
		return nil, err
	}
	source, err := registry.Get(flags.Format)
	if err != nil {
		return nil, err
	}

	tolerance, err := cfg.Sync.Tolerance()
	if err != nil {
		return nil, err
	}
	m := matcher.NewMatcher(matcher.Config{
		DayTolerance:    cfg.Sync.DayTolerance,
		AmountTolerance: tolerance,
	})

	PrintHeader(deps.Out, source.DisplayName(), opts.GroupID, opts.DryRun)

	orchestrator := sync.NewOrchestrator(source, deps.Ledger, deps.Prompter, m, deps.Repo, deps.Logger)
	result, err := orchestrator.Run(ctx, opts)
	if err != nil {
		return result, fmt.Errorf("sync failed: %w", err)
	}

	var stats *storage.Stats
	if deps.Repo != nil {
		if stats, err = deps.Repo.GetStats(); err != nil {
			deps.Logger.Warn("failed to load history stats", slog.String("error", err.Error()))
		}
	}

	PrintSyncSummary(deps.Out, result, stats, opts.DryRun)
	return result, nil
}
