// Package stream moves article rows through a Kafka topic.
package stream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"horse.fit/trendscope/internal/article"
	"horse.fit/trendscope/internal/globaltime"
)

const fetchRetryDelay = time.Second

type Store interface {
	UpsertArticle(ctx context.Context, row article.Row) (bool, error)
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type ConsumerStats struct {
	Received int
	Stored   int
	Skipped  int
	Failed   int
}

// Consumer reads JSON rows from a topic and upserts them.
type Consumer struct {
	reader messageReader
	store  Store
	logger zerolog.Logger
	stats  ConsumerStats
}

func NewConsumer(brokers []string, topic, groupID string, store Store, logger zerolog.Logger) (*Consumer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})
	logger.Info().Strs("brokers", brokers).Str("topic", topic).Str("group_id", groupID).Msg("kafka consumer initialized")
	return newConsumer(reader, store, logger), nil
}

func newConsumer(reader messageReader, store Store, logger zerolog.Logger) *Consumer {
	return &Consumer{reader: reader, store: store, logger: logger}
}

// Run consumes until ctx is cancelled. Every handled message is committed,
// including ones that fail to decode or store.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Warn().Err(err).Msg("kafka fetch failed")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(fetchRetryDelay):
			}
			continue
		}

		c.handle(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error().Err(err).Int64("offset", msg.Offset).Msg("kafka commit failed")
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) {
	c.stats.Received++

	row, err := DecodeRow(msg.Value, globaltime.RFC3339())
	if err != nil {
		c.stats.Skipped++
		level := c.logger.Warn()
		if errors.Is(err, errNoURL) {
			level = c.logger.Debug()
		}
		level.Err(err).Int("partition", msg.Partition).Int64("offset", msg.Offset).Msg("skipping message")
		return
	}

	inserted, err := c.store.UpsertArticle(ctx, row)
	if err != nil {
		c.stats.Failed++
		c.logger.Error().Err(err).Str("url", row.URL).Msg("store streamed article failed")
		return
	}
	c.stats.Stored++
	c.logger.Debug().Str("url", row.URL).Bool("inserted", inserted).Msg("stored streamed article")
}

func (c *Consumer) Stats() ConsumerStats {
	return c.stats
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
