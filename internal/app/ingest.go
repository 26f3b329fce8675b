package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"horse.fit/trendscope/internal/cli"
	"horse.fit/trendscope/internal/db"
	"horse.fit/trendscope/internal/feeds"
	"horse.fit/trendscope/internal/ingest"
	"horse.fit/trendscope/internal/reader"
	"horse.fit/trendscope/internal/summarize"
)

func runIngest(args []string) int {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	feedsFile := fs.String("feeds", "", "Feeds YAML file (defaults to FEEDS_FILE)")
	timeout := fs.Duration("timeout", 30*time.Minute, "Command timeout")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}

	cfg, logger, err := loadRuntime(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	path := strings.TrimSpace(*feedsFile)
	if path == "" {
		path = cfg.FeedsFile
	}
	sources, err := feeds.LoadSources(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load feeds: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("ingest failed to connect to database")
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	opts := ingest.Options{Language: cfg.LanguageFilter}
	if cfg.FetchBodies {
		opts.Bodies = reader.NewFetcher(reader.FetchOptions{})
	}

	svc := ingest.NewService(pool, feeds.NewCollector(cfg.FeedItemLimit), summarize.New(cfg), opts, logger)
	result, err := svc.Run(ctx, sources)
	if err != nil {
		logger.Error().Err(err).Msg("ingest run interrupted")
		fmt.Fprintf(os.Stderr, "Ingest interrupted: %v\n", err)
		return 1
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(result); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	fmt.Printf(
		"ingest sources=%d failed_sources=%d collected=%d inserted=%d updated=%d skipped=%d failed=%d\n",
		result.Sources,
		result.FailedSources,
		result.Collected,
		result.Inserted,
		result.Updated,
		result.Skipped,
		result.Failed,
	)
	return 0
}
