package domain

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"example.com/fitness/libs/go/apperr"
	"example.com/fitness/libs/go/entity"
	"example.com/fitness/libs/go/rpc"
	"example.com/fitness/libs/go/store"
)

func serve(t *testing.T, register func(*grpc.Server)) *grpc.ClientConn {
	t.Helper()
	logger := logrus.New()
	logger.Out = io.Discard

	lis := bufconn.Listen(1 << 20)
	srv := rpc.NewServer(logger)
	register(srv)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := rpc.Dial("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestForeignKeyCheckAcrossServices(t *testing.T) {
	ctx := context.Background()

	accountConn := serve(t, func(s *grpc.Server) {
		svc := NewAccountService(store.NewMemoryStore(AccountUniques()...))
		rpc.Register[entity.Account, entity.AccountInput, entity.AccountPatch](s, entity.KindAccount, svc)
	})
	accounts := rpc.NewAccountClient(accountConn, rpc.WithCallTimeout(5*time.Second))

	workoutConn := serve(t, func(s *grpc.Server) {
		svc := NewWorkoutService(store.NewMemoryStore[entity.Workout](), OwnerOf[entity.Account](entity.KindAccount, accounts))
		rpc.Register[entity.Workout, entity.WorkoutInput, entity.WorkoutPatch](s, entity.KindWorkout, svc)
	})
	workouts := rpc.NewWorkoutClient(workoutConn)

	ann, err := accounts.Create(ctx, entity.AccountInput{Name: "Ann", Email: "ann@x.io", Age: 30})
	require.NoError(t, err)

	run, err := workouts.Create(ctx, entity.WorkoutInput{Title: "Run", OwnerAccountID: ann.ID})
	require.NoError(t, err)
	require.Equal(t, entity.Workout{ID: run.ID, Title: "Run", OwnerAccountID: ann.ID}, run)

	_, err = workouts.Create(ctx, entity.WorkoutInput{Title: "Run", OwnerAccountID: "ZZZ"})
	require.True(t, apperr.IsParentNotFound(err))
	require.Equal(t, "referenced account ZZZ not found", err.Error())

	_, err = accounts.Create(ctx, entity.AccountInput{Name: "Dup", Email: "ann@x.io", Age: 31})
	require.ErrorIs(t, err, apperr.ErrValidation)

	page, err := workouts.List(ctx, "", 10)
	require.NoError(t, err)
	require.Equal(t, []entity.Workout{run}, page.Items)

	_, err = accounts.Delete(ctx, ann.ID)
	require.NoError(t, err)
	dangling, err := workouts.Get(ctx, run.ID)
	require.NoError(t, err)
	require.Equal(t, ann.ID, dangling.OwnerAccountID)
}

func TestOwnerServiceDownIsInternal(t *testing.T) {
	ctx := context.Background()
	conn, err := rpc.Dial("passthrough:///down", grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
		return nil, io.ErrUnexpectedEOF
	}))
	require.NoError(t, err)
	defer conn.Close()

	st := store.NewMemoryStore[entity.Diet]()
	diets := NewDietService(st, OwnerOf[entity.Account](entity.KindAccount, rpc.NewAccountClient(conn, rpc.WithCallTimeout(time.Second))))

	_, err = diets.Create(ctx, entity.DietInput{Title: "Keto", OwnerAccountID: "A1"})
	require.Equal(t, apperr.ErrInternal, apperr.KindOf(err))

	items, err := st.List(ctx, "", 0)
	require.NoError(t, err)
	require.Empty(t, items)
}
