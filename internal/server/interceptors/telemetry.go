package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"event-management-system/backend/internal/telemetry"
)

// TelemetryUnary returns a unary server interceptor that records the duration
// and status code of each RPC. If metrics is nil, the interceptor no-ops.
// skipMethods is the set of full method names to not measure (e.g. HealthCheck).
func TelemetryUnary(metrics *telemetry.Metrics, skipMethods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if metrics == nil || skipMethods[info.FullMethod] {
			return resp, err
		}
		metrics.RecordRPC(ctx, info.FullMethod, status.Code(err).String(), time.Since(start))
		return resp, err
	}
}
