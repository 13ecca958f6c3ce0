package rpc

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// NewServer returns a gRPC server that logs and measures every unary call.
func NewServer(logger logrus.FieldLogger, opts ...grpc.ServerOption) *grpc.Server {
	chain := grpc.ChainUnaryInterceptor(LoggingInterceptor(logger), MetricsInterceptor())
	return grpc.NewServer(append([]grpc.ServerOption{chain}, opts...)...)
}

// LoggingInterceptor logs method, status code and duration of each call.
// Internal failures log at error level, the rest at debug.
func LoggingInterceptor(logger logrus.FieldLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)

		entry := logger.WithFields(logrus.Fields{
			"method":      info.FullMethod,
			"code":        code.String(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		switch {
		case err == nil:
			entry.Debug("rpc handled")
		case code == codes.Internal:
			entry.WithError(err).Error("rpc failed")
		default:
			entry.WithError(err).Debug("rpc rejected")
		}
		return resp, err
	}
}

// MetricsInterceptor records call counts and latencies.
func MetricsInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		handlingSeconds.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())
		handledCounter.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
		return resp, err
	}
}
