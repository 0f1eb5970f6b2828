// Package kafka はコミット済みバッチの通知を Kafka へ送信します。
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ogurasousui/hiring-insights/internal/core/ingest"
	"github.com/segmentio/kafka-go"
)

const eventTypeBatchIngested = "batch_ingested"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config は Publisher の設定です。
type Config struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
}

// Publisher は ingest.EventPublisher の Kafka 実装です。
type Publisher struct {
	writer messageWriter
	topic  string
}

// NewPublisher は Publisher を生成します。1 バッチにつき 1 メッセージなので同期送信します。
func NewPublisher(cfg Config) *Publisher {
	timeout := cfg.BatchTimeout
	if timeout <= 0 {
		timeout = 10 * time.Millisecond
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           timeout,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newPublisher(writer, cfg.Topic)
}

func newPublisher(w messageWriter, topic string) *Publisher {
	return &Publisher{writer: w, topic: topic}
}

// Close は内部の writer を閉じます。
func (p *Publisher) Close() error {
	return p.writer.Close()
}

type batchIngestedPayload struct {
	EventType  string    `json:"event_type"`
	Kind       string    `json:"kind"`
	Count      int       `json:"count"`
	IngestedAt time.Time `json:"ingested_at"`
}

// PublishBatchIngested は batch_ingested イベントを送信します。
func (p *Publisher) PublishBatchIngested(ctx context.Context, event ingest.BatchIngested) error {
	msg, err := p.message(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write %s: %w", eventTypeBatchIngested, err)
	}
	return nil
}

func (p *Publisher) message(event ingest.BatchIngested) (kafka.Message, error) {
	if event.IngestedAt.IsZero() {
		event.IngestedAt = time.Now().UTC()
	}

	data, err := json.Marshal(batchIngestedPayload{
		EventType:  eventTypeBatchIngested,
		Kind:       event.Kind.String(),
		Count:      event.Count,
		IngestedAt: event.IngestedAt.UTC(),
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: marshal %s: %w", eventTypeBatchIngested, err)
	}

	return kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.Kind.String()),
		Value: data,
		Time:  event.IngestedAt.UTC(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventTypeBatchIngested)},
			{Key: "kind", Value: []byte(event.Kind.String())},
			{Key: "count", Value: []byte(strconv.Itoa(event.Count))},
		},
	}, nil
}
