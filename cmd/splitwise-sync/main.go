package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/eshaffer321/splitwise-sync/internal/adapters/clients"
	"github.com/eshaffer321/splitwise-sync/internal/application/sync"
	"github.com/eshaffer321/splitwise-sync/internal/cli"
	"github.com/eshaffer321/splitwise-sync/internal/infrastructure/config"
	"github.com/eshaffer321/splitwise-sync/internal/infrastructure/logging"
	"github.com/eshaffer321/splitwise-sync/internal/infrastructure/storage"
)

func main() {
	var (
		configFile string
		verbose    bool
	)

	// Global flags
	flag.StringVar(&configFile, "config", "", "Configuration file path (default config.yaml)")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	cfg := loadConfig(configFile)
	if verbose {
		cfg.Observability.Logging.Level = "debug"
	}
	logger := logging.NewLogger(cfg.Observability.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch args[0] {
	case "sync":
		err = runSync(ctx, args[1:], cfg, logger)
	case "currencies", "categories":
		err = runLookup(ctx, args[0], cfg, logger)
	case "serve":
		err = runServe(ctx, args[1:], cfg, logger)
	default:
		fmt.Fprintf(os.Stderr, "Unknown subcommand: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		logger.Error("command failed", slog.String("command", args[0]), slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Splitwise Sync CLI")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  splitwise-sync [global options] <command> [options]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  sync        Create Splitwise expenses for exported transactions")
	fmt.Fprintln(os.Stderr, "  currencies  List currencies supported by Splitwise")
	fmt.Fprintln(os.Stderr, "  categories  List Splitwise expense categories")
	fmt.Fprintln(os.Stderr, "  serve       Serve sync history over HTTP")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Global Options:")
	fmt.Fprintln(os.Stderr, "  -config string   Configuration file path")
	fmt.Fprintln(os.Stderr, "  -verbose         Enable verbose logging")
}

func loadConfig(configFile string) *config.Config {
	var cfg *config.Config
	if configFile == "" {
		cfg = config.LoadOrEnv()
	} else {
		config.LoadDotEnv()
		loaded, err := config.Load(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config %s: %v\n", configFile, err)
			os.Exit(1)
		}
		cfg = loaded
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func runSync(ctx context.Context, args []string, cfg *config.Config, logger *slog.Logger) error {
	flags, err := cli.ParseSyncFlags(args, cfg.Sync, os.Stderr)
	if err != nil {
		return err
	}

	c, err := clients.NewClients(cfg, logging.NewLoggerWithSystem(cfg.Observability.Logging, "splitwise"))
	if err != nil {
		return err
	}

	deps := cli.SyncDeps{
		Ledger:   c.Splitwise,
		Prompter: sync.NewTerminalPrompter(os.Stdin, os.Stdout),
		Logger:   logging.NewLoggerWithSystem(cfg.Observability.Logging, "sync"),
		Out:      os.Stdout,
	}

	if cfg.Storage.Enabled {
		store, err := storage.NewStorage(cfg.Storage.DatabasePath)
		if err != nil {
			// History is optional; a sync still runs without it
			logger.Warn("failed to open storage, history disabled",
				slog.String("path", cfg.Storage.DatabasePath),
				slog.String("error", err.Error()))
		} else {
			defer func() { _ = store.Close() }()
			deps.Repo = store
		}
	}

	_, err = cli.RunSync(ctx, cfg, flags, deps)
	return err
}

func runLookup(ctx context.Context, command string, cfg *config.Config, logger *slog.Logger) error {
	c, err := clients.NewClients(cfg, logger)
	if err != nil {
		return err
	}

	if command == "currencies" {
		return cli.RunCurrencies(ctx, c.Splitwise, os.Stdout)
	}
	return cli.RunCategories(ctx, c.Splitwise, os.Stdout)
}

func runServe(ctx context.Context, args []string, cfg *config.Config, logger *slog.Logger) error {
	flags, err := cli.ParseServeFlags(args, cfg.API, os.Stderr)
	if err != nil {
		return err
	}
	return cli.RunServe(ctx, cfg, flags, logging.NewLoggerWithSystem(cfg.Observability.Logging, "api"))
}
