package rpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"example.com/fitness/libs/go/entity"
)

// Dial opens a plaintext connection whose calls use the JSON codec.
func Dial(addr string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	base := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	}
	return grpc.NewClient(addr, append(base, opts...)...)
}

// ClientOption configures a Client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	timeout time.Duration
}

// WithCallTimeout bounds every call. A call exceeding it fails as Internal.
func WithCallTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) { o.timeout = d }
}

// Client calls a remote domain service and rebuilds its typed failures.
type Client[T entity.Record[T], C entity.Input[T], P entity.Patch[T]] struct {
	conn    grpc.ClientConnInterface
	kind    entity.Kind
	service string
	opts    clientOptions
}

// NewClient binds a client for kind to conn.
func NewClient[T entity.Record[T], C entity.Input[T], P entity.Patch[T]](conn grpc.ClientConnInterface, kind entity.Kind, opts ...ClientOption) *Client[T, C, P] {
	c := &Client[T, C, P]{conn: conn, kind: kind, service: ServiceName(kind)}
	for _, opt := range opts {
		opt(&c.opts)
	}
	return c
}

// Kind reports the entity kind served behind this client.
func (c *Client[T, C, P]) Kind() entity.Kind { return c.kind }

func (c *Client[T, C, P]) Create(ctx context.Context, input C) (T, error) {
	var out T
	err := c.invoke(ctx, MethodCreate, input, &out)
	return out, err
}

func (c *Client[T, C, P]) Get(ctx context.Context, id string) (T, error) {
	var out T
	err := c.invoke(ctx, MethodGet, GetRequest{ID: id}, &out)
	return out, err
}

func (c *Client[T, C, P]) Update(ctx context.Context, id string, patch P) (T, error) {
	var out T
	err := c.invoke(ctx, MethodUpdate, UpdateRequest[P]{ID: id, Fields: patch}, &out)
	return out, err
}

func (c *Client[T, C, P]) Delete(ctx context.Context, id string) (T, error) {
	var out T
	err := c.invoke(ctx, MethodDelete, GetRequest{ID: id}, &out)
	return out, err
}

func (c *Client[T, C, P]) List(ctx context.Context, cursor string, limit int) (entity.Page[T], error) {
	var out entity.Page[T]
	err := c.invoke(ctx, MethodList, ListRequest{Cursor: cursor, Limit: limit}, &out)
	if out.Items == nil {
		out.Items = []T{}
	}
	return out, err
}

func (c *Client[T, C, P]) invoke(ctx context.Context, method string, req, resp interface{}) error {
	if c.opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.timeout)
		defer cancel()
	}
	var trailer metadata.MD
	err := c.conn.Invoke(ctx, "/"+c.service+"/"+method, req, resp,
		grpc.CallContentSubtype(codecName),
		grpc.Trailer(&trailer),
	)
	return FromStatus(err, trailer)
}

// Per-entity clients.
type (
	AccountClient  = Client[entity.Account, entity.AccountInput, entity.AccountPatch]
	WorkoutClient  = Client[entity.Workout, entity.WorkoutInput, entity.WorkoutPatch]
	ExerciseClient = Client[entity.Exercise, entity.ExerciseInput, entity.ExercisePatch]
	DietClient     = Client[entity.Diet, entity.DietInput, entity.DietPatch]
)

func NewAccountClient(conn grpc.ClientConnInterface, opts ...ClientOption) *AccountClient {
	return NewClient[entity.Account, entity.AccountInput, entity.AccountPatch](conn, entity.KindAccount, opts...)
}

func NewWorkoutClient(conn grpc.ClientConnInterface, opts ...ClientOption) *WorkoutClient {
	return NewClient[entity.Workout, entity.WorkoutInput, entity.WorkoutPatch](conn, entity.KindWorkout, opts...)
}

func NewExerciseClient(conn grpc.ClientConnInterface, opts ...ClientOption) *ExerciseClient {
	return NewClient[entity.Exercise, entity.ExerciseInput, entity.ExercisePatch](conn, entity.KindExercise, opts...)
}

func NewDietClient(conn grpc.ClientConnInterface, opts ...ClientOption) *DietClient {
	return NewClient[entity.Diet, entity.DietInput, entity.DietPatch](conn, entity.KindDiet, opts...)
}
