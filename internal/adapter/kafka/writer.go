// Package kafka publishes comparison results to a sink topic for downstream
// consumers that track the dataset between batch runs.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/homeeconomics/PriceMaps/internal/config"
	"github.com/homeeconomics/PriceMaps/internal/domain"
)

// Writer produces comparison-result messages to a Kafka topic.
// It implements pipeline.ResultPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishResults serializes and publishes the comparison set in a single
// WriteMessages call. The latest month rides along as a header so consumers
// can distinguish runs.
func (w *Writer) PublishResults(ctx context.Context, results []domain.ComparisonResult, latest time.Time) error {
	if len(results) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(results))
	for i := range results {
		msg, err := serializeToMessage(results[i], latest)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish comparison results: %w", err)
	}
	w.logger.Info("comparison results published", "count", len(results), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a ComparisonResult into a Kafka message keyed
// by ZCTA, so a compacted topic retains one record per region.
func serializeToMessage(result domain.ComparisonResult, latest time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize comparison result: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(result.ZCTA),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "latest_month", Value: []byte(latest.Format("2006-01"))},
			{Key: "state", Value: []byte(result.State)},
		},
	}, nil
}
