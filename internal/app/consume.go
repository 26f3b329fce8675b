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
	"horse.fit/trendscope/internal/stream"
)

func runConsume(args []string) int {
	fs := flag.NewFlagSet("consume", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	topic := fs.String("topic", "", "Kafka topic (defaults to KAFKA_TOPIC)")
	groupID := fs.String("group", "", "Consumer group (defaults to KAFKA_GROUP_ID)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, logger, err := loadRuntime(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	targetTopic := strings.TrimSpace(*topic)
	if targetTopic == "" {
		targetTopic = cfg.KafkaTopic
	}
	targetGroup := strings.TrimSpace(*groupID)
	if targetGroup == "" {
		targetGroup = cfg.KafkaGroupID
	}

	dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer dbCancel()

	pool, err := db.NewPool(dbCtx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("consume failed to connect to database")
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	consumer, err := stream.NewConsumer(cfg.KafkaBrokerList(), targetTopic, targetGroup, pool, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create kafka consumer: %v\n", err)
		return 1
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		cancel()
	}()

	if err := consumer.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("consumer failed")
		fmt.Fprintf(os.Stderr, "Consumer failed: %v\n", err)
		return 1
	}

	stats := consumer.Stats()
	logger.Info().
		Int("received", stats.Received).
		Int("stored", stats.Stored).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Msg("kafka consumer stopped")
	return 0
}
