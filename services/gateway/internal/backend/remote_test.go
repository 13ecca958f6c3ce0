package backend_test

import (
	"context"
	"io"
	"net"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"example.com/fitness/libs/go/apperr"
	"example.com/fitness/libs/go/entity"
	"example.com/fitness/libs/go/events"
	"example.com/fitness/libs/go/rpc"
	"example.com/fitness/services/gateway/internal/backend"
	"example.com/fitness/services/gateway/internal/backend/backendtest"
)

// serveOverGRPC exposes the fakes on an in-memory gRPC server and returns a
// Backend built on rpc clients, the way main wires it.
func serveOverGRPC(t *testing.T, fakes *backendtest.Fitness, notifier *events.Notifier) *backend.Backend {
	t.Helper()
	logger := logrus.New()
	logger.Out = io.Discard

	lis := bufconn.Listen(1 << 20)
	srv := rpc.NewServer(logger)
	rpc.Register[entity.Account, entity.AccountInput, entity.AccountPatch](srv, entity.KindAccount, fakes.Accounts)
	rpc.Register[entity.Workout, entity.WorkoutInput, entity.WorkoutPatch](srv, entity.KindWorkout, fakes.Workouts)
	rpc.Register[entity.Exercise, entity.ExerciseInput, entity.ExercisePatch](srv, entity.KindExercise, fakes.Exercises)
	rpc.Register[entity.Diet, entity.DietInput, entity.DietPatch](srv, entity.KindDiet, fakes.Diets)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := rpc.Dial("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return backend.New(backend.Services{
		Accounts:  rpc.NewAccountClient(conn),
		Workouts:  rpc.NewWorkoutClient(conn),
		Exercises: rpc.NewExerciseClient(conn),
		Diets:     rpc.NewDietClient(conn),
	}, notifier)
}

func TestBackendOverGRPCKeepsTypedFailures(t *testing.T) {
	ctx := context.Background()
	rec := &backendtest.Recorder{}
	notifier := events.NewNotifier(rec)
	b := serveOverGRPC(t, backendtest.NewFitness(), notifier)

	ann, err := b.Accounts.Create(ctx, entity.AccountInput{Name: "Ann", Email: "Ann@X.io", Age: 30})
	require.NoError(t, err)
	require.Equal(t, "ann@x.io", ann.Email)

	_, err = b.Accounts.Create(ctx, entity.AccountInput{Name: "Dup", Email: "ann@x.io", Age: 30})
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = b.Diets.Create(ctx, entity.DietInput{Title: "Keto", OwnerAccountID: "ZZZ"})
	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.True(t, apperr.IsParentNotFound(err))
	require.Equal(t, "referenced account ZZZ not found", err.Error())

	_, err = b.Workouts.Get(ctx, "nope")
	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.False(t, apperr.IsParentNotFound(err))

	keto, err := b.Diets.Create(ctx, entity.DietInput{Title: "Keto", OwnerAccountID: ann.ID})
	require.NoError(t, err)
	require.Equal(t, ann.ID, keto.OwnerAccountID)

	require.NoError(t, notifier.Close())
	require.ElementsMatch(t, []string{"Account created: Ann", "Diet created: Keto"}, rec.Messages())
}

func TestBackendOverGRPCListLimits(t *testing.T) {
	ctx := context.Background()
	fakes := backendtest.NewFitness()
	b := serveOverGRPC(t, fakes, nil)

	ann, err := b.Accounts.Create(ctx, entity.AccountInput{Name: "Ann", Email: "ann@x.io", Age: 30})
	require.NoError(t, err)
	for _, title := range []string{"A", "B", "C"} {
		_, err := b.Workouts.Create(ctx, entity.WorkoutInput{Title: title, OwnerAccountID: ann.ID})
		require.NoError(t, err)
	}

	_, err = b.Workouts.List(ctx, "", -1)
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = b.Workouts.List(ctx, "%%%", 0)
	require.ErrorIs(t, err, apperr.ErrValidation)

	page, err := b.Workouts.List(ctx, "", backendtest.MaxPageSize+50)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	require.Empty(t, page.NextCursor)

	page, err = b.Workouts.List(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.NotEmpty(t, page.NextCursor)

	rest, err := b.Workouts.List(ctx, page.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, rest.Items, 1)
}
