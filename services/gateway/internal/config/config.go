// Package config centralises configuration parsing for the gateway.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config captures runtime configuration values for the gateway.
type Config struct {
	HTTPAddress         string        `envconfig:"HTTP_ADDRESS" default:":3000"`
	AccountServiceAddr  string        `envconfig:"ACCOUNT_SERVICE_ADDR" default:"localhost:50051"`
	WorkoutServiceAddr  string        `envconfig:"WORKOUT_SERVICE_ADDR" default:"localhost:50052"`
	ExerciseServiceAddr string        `envconfig:"EXERCISE_SERVICE_ADDR" default:"localhost:50053"`
	DietServiceAddr     string        `envconfig:"DIET_SERVICE_ADDR" default:"localhost:50054"`
	RPCTimeout          time.Duration `envconfig:"RPC_TIMEOUT" default:"10s"`
	KafkaBrokers        []string      `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	EventTopic          string        `envconfig:"EVENT_TOPIC" default:"fitness-events"`
	PublishTimeout      time.Duration `envconfig:"PUBLISH_TIMEOUT" default:"5s"`
	CORSAllowedOrigins  []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	ReadTimeout         time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"5s"`
	WriteTimeout        time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"15s"`
	IdleTimeout         time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"60s"`
	LogLevel            string        `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads environment variables into Config, applying defaults for local dev.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	if cfg.RPCTimeout <= 0 {
		return Config{}, fmt.Errorf("RPC_TIMEOUT must be positive, got %s", cfg.RPCTimeout)
	}
	cfg.KafkaBrokers = splitAndTrim(cfg.KafkaBrokers)
	cfg.CORSAllowedOrigins = splitAndTrim(cfg.CORSAllowedOrigins)
	return cfg, nil
}

func splitAndTrim(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
