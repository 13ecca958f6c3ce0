package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"example.com/fitness/libs/go/events"
	"example.com/fitness/libs/go/logging"
	"example.com/fitness/libs/go/rpc"
	"example.com/fitness/services/gateway/internal/api"
	"example.com/fitness/services/gateway/internal/backend"
	"example.com/fitness/services/gateway/internal/config"
	"example.com/fitness/services/gateway/internal/graph"
	httptransport "example.com/fitness/services/gateway/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	logger := logging.New(cfg.LogLevel)
	log := logger.WithField("component", "gateway")

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("gateway stopped")
	}
}

func run(cfg config.Config, log logrus.FieldLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addrs := []string{cfg.AccountServiceAddr, cfg.WorkoutServiceAddr, cfg.ExerciseServiceAddr, cfg.DietServiceAddr}
	conns := make([]*grpc.ClientConn, 0, len(addrs))
	defer func() {
		for _, conn := range conns {
			_ = conn.Close()
		}
	}()
	for _, addr := range addrs {
		conn, err := rpc.Dial(addr)
		if err != nil {
			return fmt.Errorf("dial %s: %w", addr, err)
		}
		conns = append(conns, conn)
	}

	timeout := rpc.WithCallTimeout(cfg.RPCTimeout)
	services := backend.Services{
		Accounts:  rpc.NewAccountClient(conns[0], timeout),
		Workouts:  rpc.NewWorkoutClient(conns[1], timeout),
		Exercises: rpc.NewExerciseClient(conns[2], timeout),
		Diets:     rpc.NewDietClient(conns[3], timeout),
	}

	publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.EventTopic)
	notifier := events.NewNotifier(publisher, events.WithTimeout(cfg.PublishTimeout), events.WithLogger(log))
	defer func() {
		if err := notifier.Close(); err != nil {
			log.WithError(err).Warn("close notifier")
		}
	}()

	b := backend.New(services, notifier)

	router := mux.NewRouter()
	router.Use(httptransport.Instrument)
	api.NewHandler(b, log).RegisterRoutes(router)

	graphHandler, err := graph.NewHandler(b, log)
	if err != nil {
		return fmt.Errorf("parse graphql schema: %w", err)
	}
	router.Handle("/graphql", graphHandler).Methods(http.MethodPost)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	chain := alice.New(httptransport.AccessLog(log), httptransport.CORS(cfg.CORSAllowedOrigins))
	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}, chain.Then(router))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("gateway listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
