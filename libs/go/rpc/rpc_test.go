package rpc

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"example.com/fitness/libs/go/apperr"
	"example.com/fitness/libs/go/entity"
)

var _ Service[entity.Account, entity.AccountInput, entity.AccountPatch] = (*AccountClient)(nil)

type stubWorkouts struct {
	workouts map[string]entity.Workout
	createFn func(entity.WorkoutInput) (entity.Workout, error)
	delay    time.Duration
	lastList ListRequest
	lastPtch entity.WorkoutPatch
}

func (s *stubWorkouts) Create(_ context.Context, in entity.WorkoutInput) (entity.Workout, error) {
	return s.createFn(in)
}

func (s *stubWorkouts) Get(ctx context.Context, id string) (entity.Workout, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return entity.Workout{}, ctx.Err()
		}
	}
	w, ok := s.workouts[id]
	if !ok {
		return entity.Workout{}, apperr.NotFound("workout", id)
	}
	return w, nil
}

func (s *stubWorkouts) Update(_ context.Context, id string, patch entity.WorkoutPatch) (entity.Workout, error) {
	s.lastPtch = patch
	w, ok := s.workouts[id]
	if !ok {
		return entity.Workout{}, apperr.NotFound("workout", id)
	}
	return patch.Apply(w), nil
}

func (s *stubWorkouts) Delete(_ context.Context, id string) (entity.Workout, error) {
	return entity.Workout{}, errors.New("disk on fire")
}

func (s *stubWorkouts) List(_ context.Context, cursor string, limit int) (entity.Page[entity.Workout], error) {
	s.lastList = ListRequest{Cursor: cursor, Limit: limit}
	return entity.Page[entity.Workout]{Items: []entity.Workout{s.workouts["W1"]}, NextCursor: "next"}, nil
}

func startWorkoutServer(t *testing.T, svc *stubWorkouts, opts ...ClientOption) *WorkoutClient {
	t.Helper()
	logger := logrus.New()
	logger.Out = io.Discard

	lis := bufconn.Listen(1 << 20)
	srv := NewServer(logger)
	Register[entity.Workout, entity.WorkoutInput, entity.WorkoutPatch](srv, entity.KindWorkout, svc)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := Dial("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewWorkoutClient(conn, opts...)
}

func TestClientRoundTrip(t *testing.T) {
	run := entity.Workout{ID: "W1", Title: "Run", Description: "5k", OwnerAccountID: "A1"}
	svc := &stubWorkouts{
		workouts: map[string]entity.Workout{"W1": run},
		createFn: func(in entity.WorkoutInput) (entity.Workout, error) {
			return in.Record().WithID("W2"), nil
		},
	}
	client := startWorkoutServer(t, svc)
	ctx := context.Background()

	got, err := client.Get(ctx, "W1")
	require.NoError(t, err)
	require.Equal(t, run, got)

	created, err := client.Create(ctx, entity.WorkoutInput{Title: " Swim ", OwnerAccountID: "A1"})
	require.NoError(t, err)
	require.Equal(t, entity.Workout{ID: "W2", Title: "Swim", OwnerAccountID: "A1"}, created)

	title := "Long run"
	updated, err := client.Update(ctx, "W1", entity.WorkoutPatch{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Long run", updated.Title)
	require.Equal(t, "5k", updated.Description)
	require.Nil(t, svc.lastPtch.OwnerAccountID)

	page, err := client.List(ctx, "abc", 5)
	require.NoError(t, err)
	require.Equal(t, ListRequest{Cursor: "abc", Limit: 5}, svc.lastList)
	require.Equal(t, []entity.Workout{run}, page.Items)
	require.Equal(t, "next", page.NextCursor)
}

func TestClientRebuildsTypedFailures(t *testing.T) {
	svc := &stubWorkouts{
		workouts: map[string]entity.Workout{},
		createFn: func(in entity.WorkoutInput) (entity.Workout, error) {
			if in.OwnerAccountID == "ZZZ" {
				return entity.Workout{}, apperr.ParentNotFound("account", "ZZZ")
			}
			return entity.Workout{}, apperr.Validation("title is required")
		},
	}
	client := startWorkoutServer(t, svc)
	ctx := context.Background()

	_, err := client.Get(ctx, "missing")
	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.False(t, apperr.IsParentNotFound(err))
	var typed *apperr.Error
	require.ErrorAs(t, err, &typed)
	require.Equal(t, "workout", typed.Entity)
	require.Equal(t, "missing", typed.ID)
	require.Equal(t, "workout missing not found", err.Error())

	_, err = client.Create(ctx, entity.WorkoutInput{Title: "Run", OwnerAccountID: "ZZZ"})
	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.True(t, apperr.IsParentNotFound(err))
	require.Equal(t, "referenced account ZZZ not found", err.Error())

	_, err = client.Create(ctx, entity.WorkoutInput{})
	require.ErrorIs(t, err, apperr.ErrValidation)
	require.Equal(t, "title is required", err.Error())

	_, err = client.Delete(ctx, "W1")
	require.ErrorIs(t, err, apperr.ErrInternal)
	require.Equal(t, codes.Internal, status.Code(err))
	require.Equal(t, "disk on fire", err.Error())
}

func TestClientTimeoutIsInternal(t *testing.T) {
	svc := &stubWorkouts{
		workouts: map[string]entity.Workout{"W1": {ID: "W1"}},
		delay:    time.Second,
	}
	client := startWorkoutServer(t, svc, WithCallTimeout(20*time.Millisecond))

	_, err := client.Get(context.Background(), "W1")
	require.ErrorIs(t, err, apperr.ErrInternal)
	require.Equal(t, apperr.ErrInternal, apperr.KindOf(err))
}

func TestClientUnreachableIsInternal(t *testing.T) {
	conn, err := Dial("passthrough:///bufnet", grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
		return nil, errors.New("connection refused")
	}))
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = NewAccountClient(conn).Get(ctx, "A1")
	require.Equal(t, apperr.ErrInternal, apperr.KindOf(err))
}

func TestServiceName(t *testing.T) {
	require.Equal(t, "fitness.exercise.ExerciseService", ServiceName(entity.KindExercise))
}
