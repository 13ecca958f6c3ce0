package events

import (
	"context"
	"strings"

	"github.com/segmentio/kafka-go"
)

// Record header names.
const (
	HeaderEventType  = "event_type"
	HeaderEntityKind = "entity_kind"
	HeaderEntityID   = "entity_id"
)

// Publisher appends a change to the event log.
type Publisher interface {
	Publish(ctx context.Context, change Change) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes every change to a single topic.
type KafkaPublisher struct {
	topic  string
	writer messageWriter
}

// NewKafkaPublisher creates a publisher writing to topic on the given brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	if strings.TrimSpace(topic) == "" {
		topic = DefaultTopic
	}
	return &KafkaPublisher{
		topic: topic,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			Compression:            kafka.Snappy,
			AllowAutoTopicCreation: true,
		},
	}
}

// Topic reports the destination topic.
func (p *KafkaPublisher) Topic() string { return p.topic }

// Publish implements Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, change Change) error {
	return p.writer.WriteMessages(ctx, NewMessage(change))
}

// Close flushes and releases the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NewMessage encodes a change as a Kafka record keyed by entity id.
func NewMessage(change Change) kafka.Message {
	return kafka.Message{
		Key:   []byte(change.ID),
		Value: []byte(change.Message()),
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(change.EventType())},
			{Key: HeaderEntityKind, Value: []byte(change.Kind)},
			{Key: HeaderEntityID, Value: []byte(change.ID)},
		},
	}
}

// NoopPublisher discards every change.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Change) error { return nil }

func (NoopPublisher) Close() error { return nil }
