package server

import (
	"context"
	"fmt"
	"log"
	"path"
	"runtime/debug"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/fremvaerk/horalis/internal/metrics"
)

func metricsUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	metrics.RPCRequests.WithLabelValues(path.Base(info.FullMethod), status.Code(err).String()).Inc()
	return resp, err
}

func metricsStream(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	err := handler(srv, ss)
	metrics.RPCRequests.WithLabelValues(path.Base(info.FullMethod), status.Code(err).String()).Inc()
	return err
}

// recoverUnary turns a handler panic into an Internal error so one bad
// request can't take the tray down.
func recoverUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[server] panic in %s: %v\n%s", info.FullMethod, r, debug.Stack())
			err = status.Error(codes.Internal, fmt.Sprint(r))
		}
	}()
	return handler(ctx, req)
}
