package middleware

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// RequestRecorder receives the outcome of each gRPC request.
type RequestRecorder interface {
	RecordGRPCRequest(method, code string, duration time.Duration)
}

// Metrics is a unary interceptor that records request counts and latency.
type Metrics struct {
	recorder RequestRecorder
}

// NewMetrics creates a new Metrics middleware.
func NewMetrics(recorder RequestRecorder) *Metrics {
	return &Metrics{recorder: recorder}
}

func (m *Metrics) HandleGRPC(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	m.recorder.RecordGRPCRequest(info.FullMethod, status.Code(err).String(), time.Since(start))
	return resp, err
}
