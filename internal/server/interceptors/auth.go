package interceptors

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"event-management-system/backend/internal/auth"
	"event-management-system/backend/internal/telemetry"
)

const bearerPrefix = "bearer "

// AuthUnary returns a unary server interceptor that reconstructs the caller's
// identity from the Bearer token in gRPC metadata and attaches it to the
// context for protected RPCs. Authentication itself never errors; any bad
// credential simply leaves the request anonymous. publicMethods is the set of
// full method names allowed to proceed anonymously (e.g. AuthService Login,
// Refresh; the health check); everything else gets Unauthenticated when no
// identity could be established. metrics may be nil.
func AuthUnary(authenticator *auth.Authenticator, metrics *telemetry.Metrics, publicMethods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		identity := authenticator.Authenticate(ctx, extractBearer(ctx))
		if identity == nil {
			metrics.RecordAuth(ctx, "anonymous")
			if publicMethods[info.FullMethod] {
				return handler(ctx, req)
			}
			return nil, status.Error(codes.Unauthenticated, "missing or invalid authorization")
		}
		metrics.RecordAuth(ctx, "authenticated")
		return handler(WithIdentity(ctx, identity), req)
	}
}

// extractBearer returns the Bearer token from ctx metadata, or "" if missing or malformed.
func extractBearer(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	vals := md.Get("authorization")
	if len(vals) == 0 {
		return ""
	}
	v := strings.TrimSpace(vals[0])
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
