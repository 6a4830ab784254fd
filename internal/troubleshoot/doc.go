// Package troubleshoot is the application service in front of the diagnosis
// engines.
//
// A Service reads the current knowledge base from a knowledge.Store once per
// call and runs either the interactive engine (package diagnosis) or the
// similarity matcher (package similarity) on that snapshot. It adds what the
// pure engines leave out: answer parsing, tracing, structured logging and
// Prometheus metrics.
//
// # Usage
//
//	store, err := knowledge.Open("base_conocimiento.json", logger)
//	if err != nil {
//	    return err
//	}
//	svc, err := troubleshoot.NewService(store, logger, nil, troubleshoot.NewMetrics(prometheus.DefaultRegisterer))
//	if err != nil {
//	    return err
//	}
//	step, err := svc.StartDiagnosis(ctx, "la hidrolavadora no enciende")
//	// show step.Question, collect "si" or "no", then:
//	step, err = svc.ContinueDiagnosis(ctx, step.State, "si")
//
// # Strategies
//
// Both engines implement Strategy, so callers that only hold a description can
// pick one by name through Service.Diagnose:
//
//	res, err := svc.Diagnose(ctx, troubleshoot.StrategySimilarity, "pierde presión")
//
// The interactive strategy returns the first Step of a conversation; the
// similarity strategy returns a MatchReport.
package troubleshoot
