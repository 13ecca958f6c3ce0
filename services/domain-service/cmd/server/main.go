package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"example.com/fitness/libs/go/events"
	"example.com/fitness/libs/go/logging"
	"example.com/fitness/libs/go/rpc"
	"example.com/fitness/services/domain-service/internal/config"
	"example.com/fitness/services/domain-service/internal/domain"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	logger := logging.New(cfg.LogLevel)
	log := logger.WithFields(logrus.Fields{"component": "domain-service", "entity": string(cfg.Kind)})

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("domain service stopped")
	}
}

// run owns every resource it opens, so an early failure still closes them.
func run(cfg config.Config, log logrus.FieldLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.PublishEvents {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.EventTopic)
	}
	notifier := events.NewNotifier(publisher, events.WithTimeout(cfg.PublishTimeout), events.WithLogger(log))
	defer func() {
		if err := notifier.Close(); err != nil {
			log.WithError(err).Warn("close notifier")
		}
	}()

	deps, err := openDependencies(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open dependencies: %w", err)
	}
	defer deps.Close()

	server := rpc.NewServer(log)
	opts := []domain.Option{domain.WithLogger(log), domain.WithNotifier(notifier)}
	if err := register(ctx, server, cfg, deps, opts); err != nil {
		return fmt.Errorf("register service: %w", err)
	}

	lis, err := net.Listen("tcp", cfg.GRPCAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.GRPCAddress, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("%s service listening on %s", cfg.Kind, cfg.GRPCAddress)
		return server.Serve(lis)
	})
	g.Go(func() error {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		server.GracefulStop()
		return metricsServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
