package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"horse.fit/trendscope/internal/cli"
	"horse.fit/trendscope/internal/report"
)

func runReport(args []string) int {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	limit := fs.Int("limit", 0, "Most recent rows to analyze (defaults to ANALYSIS_ROW_LIMIT)")
	format := fs.String("format", outputFormatTable, "Output format: table or json")
	section := fs.String("section", sectionAll, "Report section to print")
	now := fs.String("now", "", "Reference time for velocity windows (RFC3339 or YYYY-MM-DD)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "report does not accept positional arguments")
		return 2
	}
	if *limit < 0 {
		fmt.Fprintln(os.Stderr, "--limit must be >= 0")
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}
	targetSection, err := parseSection(*section)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid section: %v\n", err)
		return 2
	}
	reference, err := parseNowFlag(*now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid --now: %v\n", err)
		return 2
	}

	ctx, cancel, cfg, pool, err := connectReadPool(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer pool.Close()

	rowLimit := *limit
	if rowLimit == 0 {
		rowLimit = cfg.AnalysisRowLimit
	}

	rows, err := pool.ListRecentRows(ctx, rowLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load articles: %v\n", err)
		return 1
	}

	opts := reportOptionsFromConfig(cfg)
	opts.Velocity.Now = reference

	if err := printReport(report.Build(rows, opts), outputFormat, targetSection); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to print report: %v\n", err)
		return 1
	}
	return 0
}
