package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/trendscope/internal/cli"
	"horse.fit/trendscope/internal/digest"
	"horse.fit/trendscope/internal/report"
)

func runDigest(args []string) int {
	fs := flag.NewFlagSet("digest", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	limit := fs.Int("limit", 0, "Most recent rows to analyze (defaults to ANALYSIS_ROW_LIMIT)")
	format := fs.String("format", "html", "Digest format: html or markdown")
	out := fs.String("out", "", "Write the digest to this file instead of stdout")
	subject := fs.String("subject", digest.DefaultSubject, "Digest subject line")
	now := fs.String("now", "", "Reference time for velocity windows (RFC3339 or YYYY-MM-DD)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	digestFormat := strings.ToLower(strings.TrimSpace(*format))
	if digestFormat != "html" && digestFormat != "markdown" {
		fmt.Fprintln(os.Stderr, "--format must be html or markdown")
		return 2
	}
	if *limit < 0 {
		fmt.Fprintln(os.Stderr, "--limit must be >= 0")
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

	d, err := digest.Render(report.Build(rows, opts), digest.Meta{Subject: *subject})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render digest: %v\n", err)
		return 1
	}

	body := d.HTML
	if digestFormat == "markdown" {
		body = d.Markdown
	}

	target := strings.TrimSpace(*out)
	if target == "" {
		fmt.Print(body)
		return 0
	}
	if err := os.WriteFile(target, []byte(body), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write digest: %v\n", err)
		return 1
	}
	fmt.Printf("digest id=%s subject=%q file=%s\n", d.ID, d.Subject, target)
	return 0
}
