// Package server assembles the gRPC server: interceptor chain, telemetry
// stats handler, and the standard health service.
package server

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"event-management-system/backend/internal/audit"
	"event-management-system/backend/internal/auth"
	"event-management-system/backend/internal/server/interceptors"
	"event-management-system/backend/internal/telemetry"
)

const healthCheckMethod = "/grpc.health.v1.Health/Check"

// Deps holds the collaborators the gRPC server wires into its interceptors.
type Deps struct {
	// Authenticator reconstructs caller identity from Bearer tokens. Required.
	Authenticator *auth.Authenticator
	// Recorder receives per-request activity entries. If nil, RPCs are not audited.
	Recorder audit.Recorder
	// Metrics receives auth and RPC measurements. May be nil.
	Metrics *telemetry.Metrics
	// PublicMethods is the set of full method names allowed to proceed
	// anonymously. The health check is always public.
	PublicMethods map[string]bool
	// SkipAuditMethods is the set of full method names not audited or
	// measured. The health check is always skipped.
	SkipAuditMethods map[string]bool
}

// New returns a gRPC server with the telemetry, auth, and audit interceptors
// chained in that order, plus the standard health service already registered.
// The returned health server starts in SERVING state; callers flip it to
// NOT_SERVING during shutdown.
func New(deps Deps) (*grpc.Server, *health.Server) {
	public := withMethod(deps.PublicMethods, healthCheckMethod)
	skip := withMethod(deps.SkipAuditMethods, healthCheckMethod)

	s := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			interceptors.TelemetryUnary(deps.Metrics, skip),
			interceptors.AuthUnary(deps.Authenticator, deps.Metrics, public),
			interceptors.AuditUnary(deps.Recorder, skip),
		),
	)

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(s, healthSrv)
	return s, healthSrv
}

// withMethod returns a copy of set with method added, leaving set untouched.
func withMethod(set map[string]bool, method string) map[string]bool {
	out := make(map[string]bool, len(set)+1)
	for k, v := range set {
		out[k] = v
	}
	out[method] = true
	return out
}
