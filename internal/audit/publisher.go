package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

// DefaultTopic is the Kafka topic access entries stream to.
const DefaultTopic = "medblock.access-log"

// StreamPublisher mirrors appended entries onto a Kafka topic for
// downstream consumers (SIEM, compliance reporting). It is strictly
// best-effort: the store append is the source of truth and a broker
// outage only logs a warning.
type StreamPublisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewStreamPublisher connects to the brokers and ensures the topic
// exists. Topic creation racing another instance is fine; the existing
// topic wins.
func NewStreamPublisher(ctx context.Context, brokers []string, topic string, logger *slog.Logger) (*StreamPublisher, error) {
	if topic == "" {
		topic = DefaultTopic
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerLinger(50*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}

	adm := kadm.NewClient(client)
	if _, err := adm.CreateTopics(ctx, 3, 1, nil, topic); err != nil {
		logger.Warn("audit topic bootstrap failed", "topic", topic, "error", err)
	}

	return &StreamPublisher{client: client, topic: topic, logger: logger}, nil
}

// Publish sends the entry keyed by subject DID, so one subject's trail
// stays ordered within a partition.
func (p *StreamPublisher) Publish(ctx context.Context, entry Entry) {
	value, err := json.Marshal(entry)
	if err != nil {
		p.logger.Error("encode audit entry for stream", "entry_id", entry.ID, "error", err)
		return
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(entry.SubjectDID),
		Value: value,
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Warn("audit stream publish failed", "entry_id", entry.ID, "error", err)
		}
	})
}

func (p *StreamPublisher) Close() {
	p.client.Close()
}
