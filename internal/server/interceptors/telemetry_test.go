package interceptors

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"google.golang.org/grpc"

	"event-management-system/backend/internal/telemetry"
)

// durationPoints collects once and returns the rpc.server.duration histogram
// datapoint count.
func durationPoints(t *testing.T, reader *sdkmetric.ManualReader) int {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "rpc.server.duration" {
				continue
			}
			hist, ok := m.Data.(metricdata.Histogram[float64])
			if !ok {
				t.Fatalf("rpc.server.duration: unexpected data type %T", m.Data)
			}
			return len(hist.DataPoints)
		}
	}
	return 0
}

func TestTelemetryUnary_RecordsDuration(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := telemetry.NewMetrics(provider, nil)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	interceptor := TelemetryUnary(metrics, map[string]bool{})
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	}

	if _, err := interceptor(context.Background(), "request", &grpc.UnaryServerInfo{
		FullMethod: "/events.v1.EventService/Get",
	}, handler); err != nil {
		t.Fatalf("interceptor: %v", err)
	}

	if got := durationPoints(t, reader); got != 1 {
		t.Errorf("duration datapoints = %d, want 1", got)
	}
}

func TestTelemetryUnary_SkipMethod(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := telemetry.NewMetrics(provider, nil)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	interceptor := TelemetryUnary(metrics, map[string]bool{
		"/grpc.health.v1.Health/Check": true,
	})
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	}

	if _, err := interceptor(context.Background(), "request", &grpc.UnaryServerInfo{
		FullMethod: "/grpc.health.v1.Health/Check",
	}, handler); err != nil {
		t.Fatalf("interceptor: %v", err)
	}

	if got := durationPoints(t, reader); got != 0 {
		t.Errorf("duration datapoints = %d, want 0 for skipped method", got)
	}
}

func TestTelemetryUnary_NilMetrics(t *testing.T) {
	interceptor := TelemetryUnary(nil, map[string]bool{})
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	}

	resp, err := interceptor(context.Background(), "request", &grpc.UnaryServerInfo{
		FullMethod: "/events.v1.EventService/Get",
	}, handler)
	if err != nil || resp != "ok" {
		t.Fatalf("interceptor = %v, %v; want ok, nil", resp, err)
	}
}
