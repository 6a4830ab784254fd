// Package telemetry sets up OpenTelemetry tracing and metrics for faultdx.
//
// Spans and metrics are exported over OTLP (gRPC or HTTP/protobuf) to a
// collector. Telemetry is off by default; when disabled, Tracer and Meter return
// the global no-op implementations so callers never branch on it.
//
//	tel, err := telemetry.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	ctx, span := tel.Tracer("faultdx/troubleshoot").Start(ctx, "Service.StartDiagnosis")
//	defer span.End()
//
// Provider failures degrade telemetry instead of failing startup. Health
// reports the degraded state and the last error.
//
// NewTestTelemetry wires in-memory span and metric readers for tests.
package telemetry
