package troubleshoot

import (
	"context"
	"errors"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/faultdx/internal/diagnosis"
	"github.com/fyrsmithlabs/faultdx/internal/knowledge"
	"github.com/fyrsmithlabs/faultdx/internal/logging"
	"github.com/fyrsmithlabs/faultdx/internal/similarity"
)

var tracer = otel.Tracer("faultdx/troubleshoot")

const (
	opStart    = "start"
	opContinue = "continue"
	opMatch    = "match"
)

// Option configures a Service.
type Option func(*Service)

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithMatchCache keeps the last size similarity rankings. Entries are keyed by
// knowledge version, so a reload never serves stale results. size <= 0
// disables the cache.
func WithMatchCache(size int) Option {
	return func(s *Service) {
		if size <= 0 {
			s.matches = nil
			return
		}
		// lru.New only fails for a non-positive size.
		s.matches, _ = lru.New[matchKey, []similarity.Match](size)
	}
}

type matchKey struct {
	version string
	text    string
}

// Service runs diagnoses against the active knowledge base.
type Service struct {
	store      *knowledge.Store
	logger     *logging.Logger
	matcher    *similarity.Matcher
	metrics    *Metrics
	tracer     trace.Tracer
	matches    *lru.Cache[matchKey, []similarity.Match]
	strategies map[string]Strategy
}

// NewService creates a troubleshoot service.
//
// The store is required. A nil logger discards logs, a nil matcher uses
// similarity.DefaultThreshold and nil metrics record nothing.
func NewService(store *knowledge.Store, logger *logging.Logger, matcher *similarity.Matcher, metrics *Metrics, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errNilStore
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if matcher == nil {
		m, err := similarity.NewMatcher(similarity.DefaultThreshold)
		if err != nil {
			return nil, err
		}
		matcher = m
	}

	s := &Service{
		store:   store,
		logger:  logger.Named("troubleshoot"),
		matcher: matcher,
		metrics: metrics,
		tracer:  tracer,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.strategies = map[string]Strategy{
		StrategyInteractive: interactiveStrategy{svc: s},
		StrategySimilarity:  similarityStrategy{svc: s},
	}

	metrics.setKnowledgeSize(store.Current().Len())
	store.Subscribe(metrics.recordReload)
	return s, nil
}

// Base returns the active knowledge base snapshot.
func (s *Service) Base() *knowledge.Base {
	return s.store.Current()
}

// Knowledge summarizes the active knowledge base.
func (s *Service) Knowledge() knowledge.Summary {
	return s.store.Current().Summary()
}

// Threshold returns the similarity threshold in use.
func (s *Service) Threshold() float64 {
	return s.matcher.Threshold()
}

// StartDiagnosis begins a conversation from a free-text description.
func (s *Service) StartDiagnosis(ctx context.Context, description string) (*diagnosis.Step, error) {
	ctx, span := s.tracer.Start(ctx, "Service.StartDiagnosis")
	defer span.End()

	kb := s.store.Current()
	ctx = s.annotate(ctx, span, kb)

	engine, err := diagnosis.NewEngine(kb)
	if err != nil {
		return nil, s.fail(ctx, span, opStart, err)
	}

	start := time.Now()
	step, err := engine.Start(description)
	if err != nil {
		return nil, s.fail(ctx, span, opStart, err)
	}
	span.SetAttributes(attribute.Int("diagnosis.extracted", len(step.ExtractedAttributes)))
	s.observe(ctx, span, opStart, step, time.Since(start))
	return step, nil
}

// ContinueDiagnosis applies answer ("si" or "no") to the pending question in
// state. The state is validated against the active knowledge base; a state
// started on another version fails with diagnosis.ErrStaleState.
func (s *Service) ContinueDiagnosis(ctx context.Context, state diagnosis.State, answer string) (*diagnosis.Step, error) {
	ctx, span := s.tracer.Start(ctx, "Service.ContinueDiagnosis")
	defer span.End()

	kb := s.store.Current()
	ctx = s.annotate(ctx, span, kb)

	parsed, err := diagnosis.ParseAnswer(answer)
	if err != nil {
		return nil, s.fail(ctx, span, opContinue, err)
	}
	engine, err := diagnosis.NewEngine(kb)
	if err != nil {
		return nil, s.fail(ctx, span, opContinue, err)
	}

	start := time.Now()
	step, err := engine.Continue(state, parsed)
	if err != nil {
		if errors.Is(err, diagnosis.ErrStaleState) {
			s.logger.Info(ctx, "conversation state from another knowledge version",
				zap.String("state_version", state.KnowledgeVersion),
			)
		}
		return nil, s.fail(ctx, span, opContinue, err)
	}
	span.SetAttributes(attribute.String("diagnosis.answer", parsed.String()))
	s.observe(ctx, span, opContinue, step, time.Since(start))
	return step, nil
}

// RankBySimilarity ranks every fault against description. Blank input and
// rankings with no fault above the threshold give an empty report with a
// message; neither is an error.
func (s *Service) RankBySimilarity(ctx context.Context, description string) (*MatchReport, error) {
	ctx, span := s.tracer.Start(ctx, "Service.RankBySimilarity")
	defer span.End()

	kb := s.store.Current()
	ctx = s.annotate(ctx, span, kb)

	start := time.Now()
	matches, cached := s.rank(kb, description)
	elapsed := time.Since(start)

	report := &MatchReport{
		KnowledgeVersion: kb.Version(),
		Threshold:        s.matcher.Threshold(),
		Matches:          matches,
	}
	if len(matches) == 0 {
		report.Message = msgNoSimilarFault
	}

	span.SetAttributes(
		attribute.Int("similarity.matches", len(matches)),
		attribute.Bool("similarity.cached", cached),
	)
	if len(matches) > 0 {
		span.SetAttributes(attribute.Float64("similarity.top_score", matches[0].Score))
	}
	s.metrics.recordMatches(len(matches), elapsed)
	s.logger.Debug(ctx, "similarity ranking",
		zap.Int("matches", len(matches)),
		zap.Float64("threshold", report.Threshold),
		zap.Bool("cached", cached),
		zap.Duration("duration", elapsed),
	)
	return report, nil
}

// rank returns a copy of the cached ranking when there is one.
func (s *Service) rank(kb *knowledge.Base, description string) ([]similarity.Match, bool) {
	if s.matches == nil {
		return s.matcher.Rank(description, kb.Faults()), false
	}
	key := matchKey{version: kb.Version(), text: strings.ToLower(description)}
	if hit, ok := s.matches.Get(key); ok {
		return append([]similarity.Match{}, hit...), true
	}
	matches := s.matcher.Rank(description, kb.Faults())
	s.matches.Add(key, append([]similarity.Match{}, matches...))
	return matches, false
}

func (s *Service) annotate(ctx context.Context, span trace.Span, kb *knowledge.Base) context.Context {
	span.SetAttributes(
		attribute.String("knowledge.version", kb.Version()),
		attribute.Int("knowledge.faults", kb.Len()),
	)
	return logging.WithKnowledgeVersion(ctx, kb.Version())
}

func (s *Service) observe(ctx context.Context, span trace.Span, op string, step *diagnosis.Step, d time.Duration) {
	span.SetAttributes(
		attribute.String("diagnosis.kind", string(step.Kind)),
		attribute.Int("diagnosis.candidates", len(step.State.Candidates)),
		attribute.Int("diagnosis.resolved", len(step.State.Resolved)),
	)
	s.metrics.recordStep(op, string(step.Kind), d)

	fields := []zap.Field{
		zap.String("operation", op),
		zap.String("kind", string(step.Kind)),
		zap.Int("candidates", len(step.State.Candidates)),
		zap.Int("resolved", len(step.State.Resolved)),
	}
	switch step.Kind {
	case diagnosis.KindQuestion:
		s.logger.Debug(ctx, "diagnosis question", append(fields, zap.String("attribute", string(step.PendingAttribute)))...)
	case diagnosis.KindSolved:
		s.logger.Info(ctx, "diagnosis solved", append(fields, zap.String("fault", step.Fault.ID))...)
	default:
		s.logger.Info(ctx, "diagnosis concluded", fields...)
	}
}

// fail records err on the span and metrics. Client errors are logged at debug.
func (s *Service) fail(ctx context.Context, span trace.Span, op string, err error) error {
	span.RecordError(err)
	reason := errorReason(err)
	s.metrics.recordError(op, reason)

	if errors.Is(err, diagnosis.ErrValidation) {
		s.logger.Debug(ctx, "diagnosis request rejected",
			zap.String("operation", op),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return err
	}
	span.SetStatus(codes.Error, err.Error())
	s.logger.Error(ctx, "diagnosis failed", zap.String("operation", op), zap.Error(err))
	return err
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, diagnosis.ErrEmptyDescription):
		return "empty_description"
	case errors.Is(err, diagnosis.ErrInvalidAnswer):
		return "invalid_answer"
	case errors.Is(err, diagnosis.ErrNoPendingQuestion):
		return "no_pending_question"
	case errors.Is(err, diagnosis.ErrStaleState):
		return "stale_state"
	case errors.Is(err, diagnosis.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrUnknownStrategy):
		return "unknown_strategy"
	default:
		return "internal"
	}
}
