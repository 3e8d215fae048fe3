package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/qepting91/reddit-stats/internal/dashboard"
	"github.com/qepting91/reddit-stats/internal/ingest"
	"github.com/qepting91/reddit-stats/internal/stats"
	"github.com/qepting91/reddit-stats/internal/storage"
	"github.com/spf13/cobra"
)

func newSubsCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "subs [subreddit...]",
		Short: "Print the subscriber count of each subreddit (0 on failure)",
		RunE: func(cmd *cobra.Command, args []string) error {
			subs := append([]string{}, args...)
			if file != "" {
				loaded, err := ingest.LoadSubreddits(file)
				if err != nil {
					return fmt.Errorf("load subreddits: %w", err)
				}
				subs = append(subs, loaded...)
			}
			if len(subs) == 0 {
				return errors.New("at least one subreddit is required")
			}

			out := cmd.OutOrStdout()
			for _, sub := range subs {
				n, err := stats.Subscribers(cmd.Context(), a.fetcher, sub)
				if err != nil {
					logFailure("Subscriber lookup failed", sub, err)
					n = 0
				}
				if len(subs) == 1 {
					fmt.Fprintln(out, n)
				} else {
					fmt.Fprintf(out, "%s: %d\n", sub, n)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "CSV file of subreddits (first column, header row skipped)")
	return cmd
}

func newTopCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "top <subreddit>",
		Short: "Print the titles of the first 10 hot posts, or None",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			titles, err := stats.TopTitles(cmd.Context(), a.fetcher, args[0], stats.TopTenLimit)
			if err != nil {
				logFailure("Top titles failed", args[0], err)
				fmt.Fprintln(out, "None")
				return nil
			}
			for _, t := range titles {
				fmt.Fprintln(out, t)
			}
			return nil
		},
	}
}

func newHotCmd(a *app) *cobra.Command {
	var (
		countOnly bool
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "hot <subreddit>",
		Short: "Print the title of every hot post, or None",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			sub := args[0]

			posts, err := stats.HotPosts(cmd.Context(), a.fetcher, sub, a.cfg.PageSize)
			if err != nil {
				logFailure("Hot listing failed", sub, err)
				fmt.Fprintln(out, "None")
				return nil
			}

			if outPath != "" {
				if err := storage.WritePosts(outPath, posts); err != nil {
					return fmt.Errorf("write snapshot: %w", err)
				}
			}

			if countOnly {
				fmt.Fprintln(out, len(posts))
				return nil
			}
			for _, t := range stats.Titles(posts) {
				fmt.Fprintln(out, t)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&countOnly, "count", false, "print only the number of titles")
	cmd.Flags().StringVar(&outPath, "out", "", "write the collected posts as NDJSON to this file")
	return cmd
}

func newCountCmd(a *app) *cobra.Command {
	var (
		keywordsFile string
		chartPath    string
	)

	cmd := &cobra.Command{
		Use:   "count <subreddit> [keyword...]",
		Short: "Print keyword frequency across all hot titles as 'word: count'",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, words := args[0], append([]string{}, args[1:]...)
			if keywordsFile != "" {
				loaded, err := ingest.LoadKeywords(keywordsFile)
				if err != nil {
					return fmt.Errorf("load keywords: %w", err)
				}
				words = append(words, loaded...)
			}
			if len(words) == 0 {
				return errors.New("at least one keyword is required")
			}

			counts, err := stats.CountWords(cmd.Context(), a.fetcher, sub, words, a.cfg.PageSize)
			if err != nil {
				// Nothing is printed on failure
				logFailure("Keyword count failed", sub, err)
				return nil
			}

			entries := stats.Rank(counts)
			out := cmd.OutOrStdout()
			for _, line := range stats.FormatEntries(entries) {
				fmt.Fprintln(out, line)
			}

			if chartPath != "" {
				return writeChart(chartPath, sub, entries)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&keywordsFile, "keywords-file", "", "CSV file of extra keywords (first column, header row skipped)")
	cmd.Flags().StringVar(&chartPath, "chart", "", "render the ranked counts as an HTML bar chart")
	return cmd
}

func writeChart(path, sub string, entries []stats.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	if err := dashboard.RenderKeywords(f, "r/"+sub, entries); err != nil {
		f.Close()
		return fmt.Errorf("render chart: %w", err)
	}
	return f.Close()
}

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve live keyword and subscriber charts plus /metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = ":" + a.cfg.Port
			}
			logger := slog.Default().With("component", "dashboard")
			logger.Info("Starting Dashboard", "addr", addr)

			err := dashboard.StartServer(cmd.Context(), addr, dashboard.NewHandler(a.fetcher, a.cfg.PageSize))
			if err != nil {
				logger.Error("Dashboard failed", "err", err)
				return err
			}
			logger.Info("Dashboard stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :$PORT)")
	return cmd
}
