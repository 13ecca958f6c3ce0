//go:build integration

package events

import (
	"context"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkacontainer "github.com/testcontainers/testcontainers-go/modules/kafka"

	"example.com/fitness/libs/go/entity"
)

func TestKafkaPublisherWritesChangeMessage(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
	defer cancel()

	kafkaC, err := kafkacontainer.Run(ctx, "confluentinc/confluent-local:7.5.0",
		kafkacontainer.WithClusterID("fitness"),
		testcontainers.WithEnv(map[string]string{"KAFKA_AUTO_CREATE_TOPICS_ENABLE": "true"}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kafkaC.Terminate(context.Background()) })

	brokers, err := kafkaC.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)

	conn, err := kafka.Dial("tcp", brokers[0])
	require.NoError(t, err)
	require.NoError(t, conn.CreateTopics(kafka.TopicConfig{
		Topic:             DefaultTopic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
	_ = conn.Close()

	pub := NewKafkaPublisher(brokers, DefaultTopic)
	n := NewNotifier(pub, WithTimeout(30*time.Second))
	n.Notify(ctx, Change{Kind: entity.KindWorkout, Action: ActionCreated, ID: "W1", Name: "Run"})
	require.NoError(t, n.Close())

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       DefaultTopic,
		GroupID:     "events-integration",
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
	defer reader.Close()

	msg, err := reader.ReadMessage(ctx)
	require.NoError(t, err)
	require.Equal(t, "W1", string(msg.Key))
	require.Equal(t, "Workout created: Run", string(msg.Value))
}
