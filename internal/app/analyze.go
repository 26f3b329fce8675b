package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"horse.fit/trendscope/internal/cli"
	"horse.fit/trendscope/internal/report"
)

func runAnalyze(args []string) int {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	file := fs.String("file", "", "JSON rows file, newest row first (required)")
	format := fs.String("format", outputFormatTable, "Output format: table or json")
	section := fs.String("section", sectionAll, "Report section to print")
	now := fs.String("now", "", "Reference time for velocity windows (RFC3339 or YYYY-MM-DD)")
	extractMissing := fs.Bool("extract-missing", false, "Run the entity matcher on rows without a companies list")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "analyze does not accept positional arguments")
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

	cfg, logger, err := loadRuntime(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	rows, err := readRowsFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid rows: %v\n", err)
		return 2
	}

	opts := reportOptionsFromConfig(cfg)
	opts.Velocity.Now = reference
	opts.Velocity.ExtractMissing = *extractMissing

	rep := report.Build(rows, opts)
	logger.Debug().Int("rows", rep.RowCount).Int("hot_stories", len(rep.HotStories)).Msg("analysis complete")

	if err := printReport(rep, outputFormat, targetSection); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to print report: %v\n", err)
		return 1
	}
	return 0
}
