package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"google.golang.org/grpc"

	"example.com/fitness/libs/go/entity"
	"example.com/fitness/libs/go/rpc"
	"example.com/fitness/libs/go/store"
	"example.com/fitness/services/domain-service/internal/config"
	"example.com/fitness/services/domain-service/internal/domain"
)

// dependencies holds the connections opened for the configured store driver
// and the owning service.
type dependencies struct {
	mongo *mongo.Database
	pool  *pgxpool.Pool
	owner *grpc.ClientConn

	closers []func()
}

func openDependencies(ctx context.Context, cfg config.Config) (*dependencies, error) {
	deps := &dependencies{}

	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("connect to mongo: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("ping mongo: %w", err)
		}
		deps.mongo = client.Database(cfg.MongoDatabase)
		deps.closers = append(deps.closers, func() { _ = client.Disconnect(context.Background()) })
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		deps.pool = pool
		deps.closers = append(deps.closers, pool.Close)
	}

	if addr, ok := cfg.OwnerAddress(); ok {
		conn, err := rpc.Dial(addr)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("dial owner service %s: %w", addr, err)
		}
		deps.owner = conn
		deps.closers = append(deps.closers, func() { _ = conn.Close() })
	}
	return deps, nil
}

func (d *dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func openStore[T entity.Record[T]](ctx context.Context, cfg config.Config, deps *dependencies, uniques ...store.Unique[T]) (store.Store[T], error) {
	collection := cfg.Kind.Collection()
	switch cfg.StoreDriver {
	case config.DriverMongo:
		s := store.NewMongoStore(deps.mongo, collection, uniques...)
		return s, s.EnsureIndexes(ctx)
	case config.DriverPostgres:
		s := store.NewPostgresStore(deps.pool, collection, uniques...)
		return s, s.EnsureSchema(ctx)
	default:
		return store.NewMemoryStore(uniques...), nil
	}
}

func register(ctx context.Context, server grpc.ServiceRegistrar, cfg config.Config, deps *dependencies, opts []domain.Option) error {
	timeout := rpc.WithCallTimeout(cfg.RPCTimeout)

	switch cfg.Kind {
	case entity.KindAccount:
		st, err := openStore(ctx, cfg, deps, domain.AccountUniques()...)
		if err != nil {
			return err
		}
		rpc.Register[entity.Account, entity.AccountInput, entity.AccountPatch](server, cfg.Kind, domain.NewAccountService(st, opts...))
	case entity.KindWorkout:
		st, err := openStore[entity.Workout](ctx, cfg, deps)
		if err != nil {
			return err
		}
		accounts := domain.OwnerOf[entity.Account](entity.KindAccount, rpc.NewAccountClient(deps.owner, timeout))
		rpc.Register[entity.Workout, entity.WorkoutInput, entity.WorkoutPatch](server, cfg.Kind, domain.NewWorkoutService(st, accounts, opts...))
	case entity.KindExercise:
		st, err := openStore[entity.Exercise](ctx, cfg, deps)
		if err != nil {
			return err
		}
		workouts := domain.OwnerOf[entity.Workout](entity.KindWorkout, rpc.NewWorkoutClient(deps.owner, timeout))
		rpc.Register[entity.Exercise, entity.ExerciseInput, entity.ExercisePatch](server, cfg.Kind, domain.NewExerciseService(st, workouts, opts...))
	case entity.KindDiet:
		st, err := openStore[entity.Diet](ctx, cfg, deps)
		if err != nil {
			return err
		}
		accounts := domain.OwnerOf[entity.Account](entity.KindAccount, rpc.NewAccountClient(deps.owner, timeout))
		rpc.Register[entity.Diet, entity.DietInput, entity.DietPatch](server, cfg.Kind, domain.NewDietService(st, accounts, opts...))
	default:
		return fmt.Errorf("unsupported entity %q", cfg.Kind)
	}
	return nil
}
