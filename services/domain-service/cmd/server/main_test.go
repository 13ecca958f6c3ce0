package main

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"example.com/fitness/libs/go/entity"
	"example.com/fitness/services/domain-service/internal/config"
)

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.Out = io.Discard
	return logger
}

func TestRunReturnsStartupFailures(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{
			name: "bad postgres url",
			cfg: config.Config{
				Kind:           entity.KindWorkout,
				StoreDriver:    config.DriverPostgres,
				PostgresURL:    "postgres://%zz",
				PublishTimeout: time.Second,
			},
			want: "open dependencies",
		},
		{
			name: "bad listen address",
			cfg: config.Config{
				Kind:           entity.KindAccount,
				StoreDriver:    config.DriverMemory,
				GRPCAddress:    "localhost:-1",
				MetricsAddress: "localhost:0",
				PublishTimeout: time.Second,
			},
			want: "listen on localhost:-1",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := run(tc.cfg, quietLogger())
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}
