package interceptors

import (
	"context"
	"encoding/json"
	"net"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"event-management-system/backend/internal/audit"
	"event-management-system/backend/internal/audit/domain"
)

// requestMetadata is the JSON shape stored in the audit event metadata for
// REQUEST entries.
type requestMetadata struct {
	FullMethod string `json:"full_method"`
	StatusCode string `json:"status_code"`
	ClientIP   string `json:"client_ip"`
}

// AuditUnary returns a unary server interceptor that records an activity entry
// after each authenticated RPC. skipMethods is the set of full method names to
// not audit (e.g. HealthCheck, the lifecycle RPCs which audit themselves).
// Recording is best-effort and asynchronous; it never fails or delays the RPC.
// Anonymous requests are not audited.
func AuditUnary(recorder audit.Recorder, skipMethods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		if skipMethods[info.FullMethod] {
			return resp, err
		}
		identity, ok := IdentityFrom(ctx)
		if !ok {
			return resp, err
		}
		meta := requestMetadata{
			FullMethod: info.FullMethod,
			StatusCode: status.Code(err).String(),
			ClientIP:   ClientIP(ctx),
		}
		metaJSON, _ := json.Marshal(meta)
		audit.RecordAsync(recorder, identity.SubjectID, domain.EventRequest, identity.SessionID, string(metaJSON))
		return resp, err
	}
}

// ClientIP returns the client IP from gRPC metadata (x-forwarded-for, x-real-ip) or peer, or "unknown".
func ClientIP(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get("x-forwarded-for"); len(vals) > 0 {
			if s := strings.TrimSpace(vals[0]); s != "" {
				if i := strings.Index(s, ","); i > 0 {
					s = strings.TrimSpace(s[:i])
				}
				return s
			}
		}
		if vals := md.Get("x-real-ip"); len(vals) > 0 {
			if s := strings.TrimSpace(vals[0]); s != "" {
				return s
			}
		}
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		if host, _, err := net.SplitHostPort(p.Addr.String()); err == nil {
			return host
		}
		return p.Addr.String()
	}
	return "unknown"
}
