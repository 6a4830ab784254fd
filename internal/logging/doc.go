// Package logging provides structured logging with OpenTelemetry integration.
//
// Logger wraps Zap with:
//   - a Trace level (-2, below Debug)
//   - stdout and/or OpenTelemetry output
//   - context field injection (trace_id, span_id, request.id, knowledge.version)
//   - level-aware sampling (errors are never sampled)
//
// Create a logger from config:
//
//	logger, err := logging.NewLogger(logging.NewDefaultConfig(), nil)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
// Log with context:
//
//	ctx = logging.WithRequestID(ctx, requestID)
//	logger.Info(ctx, "diagnosis step", zap.String("kind", "question"))
//
// Tests use NewTestLogger and its assertion helpers:
//
//	tl := logging.NewTestLogger()
//	svc, _ := troubleshoot.NewService(store, tl.Logger, opts)
//	tl.AssertLogged(t, zapcore.InfoLevel, "diagnosis started")
//
// Logger is safe for concurrent use. Child loggers (With, Named) do not affect
// their parent.
package logging
