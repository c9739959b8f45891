package sink

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"racerank/pkg/race"

	"github.com/segmentio/kafka-go"
)

// KafkaSink publishes each category's results as one message keyed by category
type KafkaSink struct {
	writer *kafka.Writer
}

// KafkaConfig holds Kafka producer configuration
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// NewKafkaSink creates a new KafkaSink instance
func NewKafkaSink(cfg KafkaConfig) *KafkaSink {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}

	return &KafkaSink{writer: writer}
}

// Write publishes synchronously and returns once the brokers acknowledged
func (s *KafkaSink) Write(ctx context.Context, category race.Category, results []race.Result) error {
	value, err := json.Marshal(nonNil(results))
	if err != nil {
		return fmt.Errorf("failed to encode %s results: %w", category, err)
	}

	msg := kafka.Message{
		Key:   []byte(category),
		Value: value,
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s results: %w", category, err)
	}
	return nil
}

// Close gracefully shuts down the producer
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
