// Package telemetry holds the service-level OpenTelemetry instruments. The
// OTLP provider wiring lives in the otel subpackage; this package only defines
// what the server measures.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"event-management-system/backend/internal/registry"
)

const meterName = "event-management-system/backend"

// Metrics bundles the instruments recorded by the gRPC interceptors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	authRequests metric.Int64Counter
	rpcDuration  metric.Float64Histogram
}

// NewMetrics creates the instruments on provider's meter. If sessions is
// non-nil, an observable gauge reports the registry size on each collection.
func NewMetrics(provider metric.MeterProvider, sessions registry.Registry) (*Metrics, error) {
	meter := provider.Meter(meterName)

	authRequests, err := meter.Int64Counter("auth.requests",
		metric.WithDescription("Authentication attempts by outcome"))
	if err != nil {
		return nil, err
	}
	rpcDuration, err := meter.Float64Histogram("rpc.server.duration",
		metric.WithDescription("Unary RPC handler duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	if sessions != nil {
		active, err := meter.Int64ObservableGauge("auth.sessions.registered",
			metric.WithDescription("Entries in the session registry, including not yet evicted expired ones"))
		if err != nil {
			return nil, err
		}
		_, err = meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
			n, err := sessions.Size(ctx)
			if err != nil {
				return err
			}
			o.ObserveInt64(active, int64(n))
			return nil
		}, active)
		if err != nil {
			return nil, err
		}
	}

	return &Metrics{authRequests: authRequests, rpcDuration: rpcDuration}, nil
}

// RecordAuth counts one authentication attempt. outcome is
// "authenticated" or "anonymous".
func (m *Metrics) RecordAuth(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.authRequests.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordRPC records the duration and status code of one unary RPC.
func (m *Metrics) RecordRPC(ctx context.Context, fullMethod, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcDuration.Record(ctx, float64(d.Milliseconds()), metric.WithAttributes(
		attribute.String("rpc.method", fullMethod),
		attribute.String("rpc.code", code),
	))
}
