package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"horse.fit/trendscope/internal/cli"
	"horse.fit/trendscope/internal/db"
	"horse.fit/trendscope/internal/globaltime"
	"horse.fit/trendscope/internal/stream"
)

type importResult struct {
	Rows     int
	Inserted int
	Updated  int
	Failed   int
}

func runImport(args []string) int {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	file := fs.String("file", "", "JSON rows file to import (required)")
	timeout := fs.Duration("timeout", 2*time.Minute, "Command timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	rows, err := readRowsFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid rows: %v\n", err)
		return 2
	}

	cfg, logger, err := loadRuntime(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("import failed to connect to database")
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	fetchedAt := globaltime.RFC3339()
	result := importResult{Rows: len(rows)}
	for _, row := range rows {
		inserted, err := pool.UpsertArticle(ctx, stream.Normalize(row, fetchedAt))
		if err != nil {
			result.Failed++
			logger.Error().Err(err).Str("url", row.URL).Msg("import row failed")
			continue
		}
		if inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
	}

	fmt.Printf("import rows=%d inserted=%d updated=%d failed=%d file=%s\n",
		result.Rows, result.Inserted, result.Updated, result.Failed, *file)
	if result.Failed > 0 {
		return 1
	}
	return 0
}
