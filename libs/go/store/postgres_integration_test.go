//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"example.com/fitness/libs/go/entity"
)

func TestPostgresStoreLifecycle(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("fitness"),
		postgrescontainer.WithUsername("platform"),
		postgrescontainer.WithPassword("platform"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, waitForDatabase(ctx, connStr))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	s := NewPostgresStore(pool, entity.KindAccount.Collection(), Unique[entity.Account]{
		Field: "email",
		Value: func(a entity.Account) string { return a.Email },
	})
	require.NoError(t, s.EnsureSchema(ctx))

	ann, err := s.Insert(ctx, entity.Account{Name: "Ann", Email: "ann@x.io", Age: 30})
	require.NoError(t, err)
	require.NotEmpty(t, ann.ID)

	got, err := s.Get(ctx, ann.ID)
	require.NoError(t, err)
	require.Equal(t, ann, got)

	_, err = s.Insert(ctx, entity.Account{Name: "Imposter", Email: "ann@x.io", Age: 22})
	require.ErrorIs(t, err, ErrDuplicate)

	ann.Age = 31
	require.NoError(t, s.Replace(ctx, ann))
	require.ErrorIs(t, s.Replace(ctx, entity.Account{ID: "missing"}), ErrNotFound)

	page, err := s.List(ctx, "", 10)
	require.NoError(t, err)
	require.Equal(t, []entity.Account{ann}, page)

	deleted, err := s.Delete(ctx, ann.ID)
	require.NoError(t, err)
	require.Equal(t, 31, deleted.Age)

	_, err = s.Get(ctx, ann.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
