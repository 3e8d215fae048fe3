package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/qepting91/reddit-stats/internal/collector"
	"github.com/qepting91/reddit-stats/internal/config"
	"github.com/qepting91/reddit-stats/internal/domain"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs. Tests pre-populate fetcher.
type app struct {
	cfg     config.Config
	fetcher domain.Fetcher
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(&app{})
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "redditstats",
		Short: "Subreddit subscriber counts, hot listings and keyword frequency",
		Long: `redditstats queries Reddit's JSON API.

Configuration comes from the environment or a .env file:
REDDIT_USER_AGENT, REDDIT_PAGE_SIZE, REDDIT_HOST, COLLECTOR_MODE (public|api|mock),
REDDIT_REQUEST_INTERVAL, REDDIT_TIMEOUT, LOG_LEVEL, PORT.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	root.AddCommand(
		newSubsCmd(a),
		newTopCmd(a),
		newHotCmd(a),
		newCountCmd(a),
		newServeCmd(a),
	)
	return root
}

// setup loads config, installs the JSON logger and builds the collector.
func (a *app) setup(logOut io.Writer) error {
	if a.fetcher != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Logs go to stderr; stdout carries results
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	f, err := collector.New(cfg)
	if err != nil {
		logger.Error("Failed to initialize collector", "error", err)
		return err
	}
	logger.Debug("Collector initialized", "mode", cfg.Mode, "host", cfg.Host, "page_size", cfg.PageSize)

	a.cfg = cfg
	a.fetcher = f
	return nil
}

// logFailure records why a sentinel was printed.
func logFailure(msg, sub string, err error) {
	slog.Warn(msg, "sub", sub, "kind", domain.KindOf(err), "err", err)
}
