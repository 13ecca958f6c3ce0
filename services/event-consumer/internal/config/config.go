// Package config loads runtime settings for the event consumer.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"example.com/fitness/libs/go/events"
)

// Config captures runtime configuration values for the consumer.
type Config struct {
	KafkaBrokers   []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	EventTopic     string   `envconfig:"EVENT_TOPIC" default:"fitness-events"`
	GroupID        string   `envconfig:"CONSUMER_GROUP_ID" default:"fitness-group"`
	MetricsAddress string   `envconfig:"METRICS_ADDRESS" default:":9105"`
	LogLevel       string   `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}

	brokers := make([]string, 0, len(cfg.KafkaBrokers))
	for _, broker := range cfg.KafkaBrokers {
		if trimmed := strings.TrimSpace(broker); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	if len(brokers) == 0 {
		return Config{}, errors.New("KAFKA_BROKERS must list at least one broker")
	}
	cfg.KafkaBrokers = brokers

	if strings.TrimSpace(cfg.EventTopic) == "" {
		cfg.EventTopic = events.DefaultTopic
	}
	if strings.TrimSpace(cfg.GroupID) == "" {
		return Config{}, errors.New("CONSUMER_GROUP_ID must not be empty")
	}
	return cfg, nil
}
