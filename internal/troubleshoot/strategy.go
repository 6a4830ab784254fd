package troubleshoot

import (
	"context"
	"fmt"
	"sort"
)

// Strategy names accepted by Service.Diagnose.
const (
	StrategyInteractive = "interactive"
	StrategySimilarity  = "similarity"
)

// Strategy diagnoses a fault from a description alone.
type Strategy interface {
	Name() string
	Diagnose(ctx context.Context, description string) (*Result, error)
}

type interactiveStrategy struct{ svc *Service }

func (interactiveStrategy) Name() string { return StrategyInteractive }

func (st interactiveStrategy) Diagnose(ctx context.Context, description string) (*Result, error) {
	step, err := st.svc.StartDiagnosis(ctx, description)
	if err != nil {
		return nil, err
	}
	return &Result{Strategy: StrategyInteractive, Step: step}, nil
}

type similarityStrategy struct{ svc *Service }

func (similarityStrategy) Name() string { return StrategySimilarity }

func (st similarityStrategy) Diagnose(ctx context.Context, description string) (*Result, error) {
	report, err := st.svc.RankBySimilarity(ctx, description)
	if err != nil {
		return nil, err
	}
	return &Result{Strategy: StrategySimilarity, Report: report}, nil
}

// Strategy returns the strategy registered under name. An empty name selects
// the interactive engine.
func (s *Service) Strategy(name string) (Strategy, error) {
	if name == "" {
		name = StrategyInteractive
	}
	st, ok := s.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return st, nil
}

// Strategies lists the registered strategy names, sorted.
func (s *Service) Strategies() []string {
	names := make([]string, 0, len(s.strategies))
	for n := range s.strategies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Diagnose runs the named strategy on description.
func (s *Service) Diagnose(ctx context.Context, strategy, description string) (*Result, error) {
	st, err := s.Strategy(strategy)
	if err != nil {
		s.metrics.recordError("diagnose", errorReason(err))
		return nil, err
	}
	return st.Diagnose(ctx, description)
}
