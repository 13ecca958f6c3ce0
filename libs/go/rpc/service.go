package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"

	"example.com/fitness/libs/go/entity"
)

// Service is the contract every domain service implements and every client satisfies.
type Service[T entity.Record[T], C entity.Input[T], P entity.Patch[T]] interface {
	Create(ctx context.Context, input C) (T, error)
	Get(ctx context.Context, id string) (T, error)
	Update(ctx context.Context, id string, patch P) (T, error)
	Delete(ctx context.Context, id string) (T, error)
	List(ctx context.Context, cursor string, limit int) (entity.Page[T], error)
}

// GetRequest addresses a single record. Delete uses it too.
type GetRequest struct {
	ID string `json:"id"`
}

// UpdateRequest carries the partial update for one record.
type UpdateRequest[P any] struct {
	ID     string `json:"id"`
	Fields P      `json:"fields"`
}

// ListRequest asks for one page of records.
type ListRequest struct {
	Cursor string `json:"cursor,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// Method names shared by every entity service.
const (
	MethodCreate = "Create"
	MethodGet    = "Get"
	MethodUpdate = "Update"
	MethodDelete = "Delete"
	MethodList   = "List"
)

// ServiceName returns the fully qualified gRPC service name for kind,
// e.g. "fitness.workout.WorkoutService".
func ServiceName(kind entity.Kind) string {
	return fmt.Sprintf("fitness.%s.%sService", kind, kind.Title())
}

// ServiceDesc describes the unary methods serving svc.
func ServiceDesc[T entity.Record[T], C entity.Input[T], P entity.Patch[T]](kind entity.Kind, svc Service[T, C, P]) *grpc.ServiceDesc {
	name := ServiceName(kind)
	return &grpc.ServiceDesc{
		ServiceName: name,
		HandlerType: (*interface{})(nil),
		Methods: []grpc.MethodDesc{
			unary(name, MethodCreate, func(ctx context.Context, in C) (T, error) {
				return svc.Create(ctx, in)
			}),
			unary(name, MethodGet, func(ctx context.Context, req GetRequest) (T, error) {
				return svc.Get(ctx, req.ID)
			}),
			unary(name, MethodUpdate, func(ctx context.Context, req UpdateRequest[P]) (T, error) {
				return svc.Update(ctx, req.ID, req.Fields)
			}),
			unary(name, MethodDelete, func(ctx context.Context, req GetRequest) (T, error) {
				return svc.Delete(ctx, req.ID)
			}),
			unary(name, MethodList, func(ctx context.Context, req ListRequest) (entity.Page[T], error) {
				return svc.List(ctx, req.Cursor, req.Limit)
			}),
		},
		Metadata: kind.Collection(),
	}
}

// Register exposes svc on s under the service name for kind.
func Register[T entity.Record[T], C entity.Input[T], P entity.Patch[T]](s grpc.ServiceRegistrar, kind entity.Kind, svc Service[T, C, P]) {
	s.RegisterService(ServiceDesc(kind, svc), svc)
}

func unary[Req, Resp any](service, method string, call func(context.Context, Req) (Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			var req Req
			if err := dec(&req); err != nil {
				return nil, err
			}
			handler := func(ctx context.Context, r interface{}) (interface{}, error) {
				resp, err := call(ctx, r.(Req))
				if err != nil {
					return nil, ToStatus(ctx, err)
				}
				return resp, nil
			}
			if interceptor == nil {
				return handler(ctx, req)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, req, info, handler)
		},
	}
}
