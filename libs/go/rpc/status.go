package rpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"example.com/fitness/libs/go/apperr"
)

// Trailer keys describing a typed failure.
const (
	TrailerReason = "fitness-error-reason"
	TrailerEntity = "fitness-error-entity"
	TrailerID     = "fitness-error-id"
)

const (
	reasonNotFound       = "not_found"
	reasonParentNotFound = "parent_not_found"
	reasonValidation     = "validation"
	reasonInternal       = "internal"
)

// ToStatus converts a domain failure into a gRPC status and records its
// details as trailer metadata on the server stream carried by ctx.
func ToStatus(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok && !isTyped(err) {
		return err
	}

	var typed *apperr.Error
	errors.As(err, &typed)

	code, reason := codes.Internal, reasonInternal
	switch apperr.KindOf(err) {
	case apperr.ErrNotFound:
		code, reason = codes.NotFound, reasonNotFound
		if apperr.IsParentNotFound(err) {
			reason = reasonParentNotFound
		}
	case apperr.ErrValidation:
		code, reason = codes.InvalidArgument, reasonValidation
	}

	md := metadata.Pairs(TrailerReason, reason)
	if typed != nil {
		if typed.Entity != "" {
			md.Set(TrailerEntity, typed.Entity)
		}
		if typed.ID != "" {
			md.Set(TrailerID, typed.ID)
		}
	}
	_ = grpc.SetTrailer(ctx, md)
	return status.Error(code, err.Error())
}

// FromStatus rebuilds the domain failure from a call error and its trailer.
// Transport failures and deadlines become Internal.
func FromStatus(err error, trailer metadata.MD) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return apperr.Internal(err)
	}

	switch st.Code() {
	case codes.NotFound:
		return &apperr.Error{
			Kind:   apperr.ErrNotFound,
			Entity: first(trailer, TrailerEntity),
			ID:     first(trailer, TrailerID),
			Parent: first(trailer, TrailerReason) == reasonParentNotFound,
			Detail: st.Message(),
		}
	case codes.InvalidArgument:
		return &apperr.Error{Kind: apperr.ErrValidation, Detail: st.Message()}
	default:
		return &apperr.Error{Kind: apperr.ErrInternal, Detail: st.Message(), Cause: err}
	}
}

func isTyped(err error) bool {
	var typed *apperr.Error
	return errors.As(err, &typed)
}

func first(md metadata.MD, key string) string {
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}
