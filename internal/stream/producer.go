package stream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"horse.fit/trendscope/internal/article"
	"horse.fit/trendscope/internal/globaltime"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes rows keyed by URL so updates to one article stay on one
// partition.
type Producer struct {
	writer messageWriter
}

func NewProducer(brokers []string, topic string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}
	return &Producer{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}}, nil
}

func (p *Producer) Publish(ctx context.Context, rows []article.Row) error {
	if len(rows) == 0 {
		return nil
	}
	msgs, err := encodeMessages(rows)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write kafka messages: %w", err)
	}
	return nil
}

func encodeMessages(rows []article.Row) ([]kafka.Message, error) {
	now := globaltime.UTC()
	msgs := make([]kafka.Message, 0, len(rows))
	for i, row := range rows {
		value, err := json.Marshal(row)
		if err != nil {
			return nil, fmt.Errorf("encode row %d: %w", i, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(row.URL),
			Value: value,
			Time:  now,
		})
	}
	return msgs, nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
