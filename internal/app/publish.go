package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"horse.fit/trendscope/internal/cli"
	"horse.fit/trendscope/internal/stream"
)

func runPublish(args []string) int {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	file := fs.String("file", "", "JSON rows file to publish (required)")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")

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

	producer, err := stream.NewProducer(cfg.KafkaBrokerList(), cfg.KafkaTopic)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create kafka producer: %v\n", err)
		return 1
	}
	defer producer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := producer.Publish(ctx, rows); err != nil {
		logger.Error().Err(err).Str("topic", cfg.KafkaTopic).Msg("publish failed")
		fmt.Fprintf(os.Stderr, "Failed to publish rows: %v\n", err)
		return 1
	}

	logger.Info().Int("rows", len(rows)).Str("topic", cfg.KafkaTopic).Msg("rows published")
	fmt.Printf("publish rows=%d topic=%s\n", len(rows), cfg.KafkaTopic)
	return 0
}
