package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/eshaffer321/splitwise-sync/internal/application/sync"
	"github.com/eshaffer321/splitwise-sync/internal/domain/filter"
	"github.com/eshaffer321/splitwise-sync/internal/infrastructure/config"
)

const dateLayout = "2006-01-02"

// SyncFlags are the flags of the sync command
type SyncFlags struct {
	File        string
	Format      string
	AccountName string
	GroupID     int64
	After       string
	Before      string
	Account     string
	Description string
	All         bool
	Limit       int
	Yes         bool
	DryRun      bool
	Snapshot    string
}

// ParseSyncFlags parses sync flags from args. Unset flags fall back to the
// sync section of the config.
func ParseSyncFlags(args []string, defaults config.SyncConfig, output io.Writer) (*SyncFlags, error) {
	flags := &SyncFlags{}
	fs := flag.NewFlagSet("sync", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&flags.File, "file", "", "Transaction export to read (required)")
	fs.StringVar(&flags.Format, "format", defaults.SourceFormat, "Export format: mint or chase")
	fs.StringVar(&flags.AccountName, "account-name", defaults.AccountName, "Account name for exports that don't carry one")
	fs.Int64Var(&flags.GroupID, "group", defaults.GroupID, "Splitwise group ID")
	fs.StringVar(&flags.After, "after", "", "Only transactions on or after this date (YYYY-MM-DD)")
	fs.StringVar(&flags.Before, "before", "", "Only transactions on or before this date (YYYY-MM-DD)")
	fs.StringVar(&flags.Account, "account", "", "Only accounts matching this pattern (smart case)")
	fs.StringVar(&flags.Description, "description", "", "Only descriptions matching this pattern (smart case)")
	fs.BoolVar(&flags.All, "all", false, "Include income, refunds and payments")
	fs.IntVar(&flags.Limit, "limit", 0, "Consider at most N transactions (0 = all)")
	fs.BoolVar(&flags.Yes, "yes", false, "Create without prompting")
	fs.BoolVar(&flags.DryRun, "dry-run", false, "Run without creating expenses")
	fs.StringVar(&flags.Snapshot, "snapshot", defaults.SnapshotPolicy, "Snapshot policy: static or append")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return flags, nil
}

// ToSyncOptions converts SyncFlags to sync.Options
func (f SyncFlags) ToSyncOptions(expenseLimit int) (sync.Options, error) {
	if f.File == "" {
		return sync.Options{}, errors.New("-file is required")
	}
	if f.GroupID <= 0 {
		return sync.Options{}, errors.New("-group is required (or set sync.group_id)")
	}
	if f.Limit < 0 {
		return sync.Options{}, fmt.Errorf("-limit must not be negative, got %d", f.Limit)
	}

	criteria, err := f.criteria()
	if err != nil {
		return sync.Options{}, err
	}

	policy, err := sync.ParseSnapshotPolicy(f.Snapshot)
	if err != nil {
		return sync.Options{}, err
	}

	return sync.Options{
		FilePath:       f.File,
		GroupID:        f.GroupID,
		Criteria:       criteria,
		AssumeYes:      f.Yes,
		DryRun:         f.DryRun,
		SnapshotPolicy: policy,
		ExpenseLimit:   expenseLimit,
	}, nil
}

func (f SyncFlags) criteria() (filter.Criteria, error) {
	c := filter.Criteria{
		IncludeIncome: f.All,
		Limit:         f.Limit,
	}

	var err error
	if c.After, err = parseDate("after", f.After); err != nil {
		return c, err
	}
	if c.Before, err = parseDate("before", f.Before); err != nil {
		return c, err
	}
	if f.Account != "" {
		if c.Account, err = filter.CompileSmartCase(f.Account); err != nil {
			return c, fmt.Errorf("-account: %w", err)
		}
	}
	if f.Description != "" {
		if c.Description, err = filter.CompileSmartCase(f.Description); err != nil {
			return c, fmt.Errorf("-description: %w", err)
		}
	}
	return c, nil
}

func parseDate(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("-%s: invalid date %q (want YYYY-MM-DD)", name, value)
	}
	return &t, nil
}

// ServeFlags holds the CLI flags for the serve command.
type ServeFlags struct {
	Port int
}

// ParseServeFlags parses command line flags for the serve command.
func ParseServeFlags(args []string, defaults config.APIConfig, output io.Writer) (*ServeFlags, error) {
	flags := &ServeFlags{}
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.IntVar(&flags.Port, "port", defaults.Port, "Port to listen on")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}
