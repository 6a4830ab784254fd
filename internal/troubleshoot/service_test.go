package troubleshoot

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/faultdx/internal/diagnosis"
	"github.com/fyrsmithlabs/faultdx/internal/knowledge"
	"github.com/fyrsmithlabs/faultdx/internal/logging"
	"github.com/fyrsmithlabs/faultdx/internal/similarity"
	"github.com/fyrsmithlabs/faultdx/internal/telemetry"
)

const washerJSON = `{
  "fallas": [
    {"nombre": "Fusible quemado", "atributos": ["sin_energia", "olor_quemado"], "causas": ["Sobrecarga"], "soluciones": ["Cambiar fusible"]},
    {"nombre": "Cable desconectado", "atributos": ["sin_energia"], "causas": ["Cable flojo"], "soluciones": ["Conectar el cable"]},
    {"nombre": "Manguera rota", "atributos": ["fuga_agua"], "causas": ["Desgaste"], "soluciones": ["Reemplazar manguera"]}
  ],
  "mapeo_palabras_clave": {
    "sin_energia": ["no enciende"],
    "fuga_agua": ["gotea", "pierde agua"]
  },
  "preguntas": {
    "olor_quemado": "¿Huele a quemado?"
  }
}`

type fixture struct {
	svc     *Service
	store   *knowledge.Store
	path    string
	logger  *logging.TestLogger
	tel     *telemetry.TestTelemetry
	metrics *Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kb.json")
	require.NoError(t, os.WriteFile(path, []byte(washerJSON), 0o600))

	logger := logging.NewTestLogger()
	store, err := knowledge.Open(path, logger.Logger)
	require.NoError(t, err)

	tel := telemetry.NewTestTelemetry()
	metrics := NewMetrics(prometheus.NewRegistry())
	svc, err := NewService(store, logger.Logger, nil, metrics, WithTracer(tel.Tracer("faultdx/troubleshoot")))
	require.NoError(t, err)

	return &fixture{svc: svc, store: store, path: path, logger: logger, tel: tel, metrics: metrics}
}

func TestNewService(t *testing.T) {
	_, err := NewService(nil, nil, nil, nil)
	assert.Error(t, err)

	kb, err := knowledge.Parse([]byte(washerJSON), knowledge.FormatJSON)
	require.NoError(t, err)
	store, err := knowledge.NewStore(kb, "", nil)
	require.NoError(t, err)

	svc, err := NewService(store, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, similarity.DefaultThreshold, svc.Threshold())
	assert.Equal(t, []string{StrategyInteractive, StrategySimilarity}, svc.Strategies())

	// nil metrics must not panic on any path.
	_, err = svc.StartDiagnosis(context.Background(), "no enciende")
	require.NoError(t, err)
	_, err = svc.StartDiagnosis(context.Background(), "")
	require.Error(t, err)
}

func TestService_Conversation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	step, err := f.svc.StartDiagnosis(ctx, "La hidrolavadora NO ENCIENDE")
	require.NoError(t, err)
	require.Equal(t, diagnosis.KindQuestion, step.Kind)
	assert.Equal(t, "¿Huele a quemado?", step.Question)
	assert.Equal(t, []int{0, 1}, step.State.Candidates)

	next, err := f.svc.ContinueDiagnosis(ctx, step.State, " SI ")
	require.NoError(t, err)
	assert.Equal(t, diagnosis.KindSolved, next.Kind)
	assert.Equal(t, "Fusible quemado", next.Fault.Name)

	f.tel.AssertSpanExists(t, "Service.StartDiagnosis")
	f.tel.AssertSpanAttribute(t, "Service.StartDiagnosis", "diagnosis.kind", "question")
	f.tel.AssertSpanAttribute(t, "Service.StartDiagnosis", "diagnosis.extracted", int64(1))
	f.tel.AssertSpanAttribute(t, "Service.ContinueDiagnosis", "diagnosis.kind", "solved")
	f.tel.AssertSpanAttribute(t, "Service.ContinueDiagnosis", "knowledge.version", f.store.Current().Version())

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StepsTotal.WithLabelValues(opStart, "question")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StepsTotal.WithLabelValues(opContinue, "solved")))

	f.logger.AssertLogged(t, zapcore.InfoLevel, "diagnosis solved")
	f.logger.AssertField(t, "diagnosis solved", "fault", "fusible-quemado")
	f.logger.AssertField(t, "diagnosis solved", "knowledge.version", f.store.Current().Version())
}

func TestService_ContinueErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	step, err := f.svc.StartDiagnosis(ctx, "no enciende")
	require.NoError(t, err)

	_, err = f.svc.ContinueDiagnosis(ctx, step.State, "tal vez")
	assert.ErrorIs(t, err, diagnosis.ErrInvalidAnswer)

	stale := step.State.Clone()
	stale.KnowledgeVersion = "00000000-0000-0000-0000-000000000000"
	_, err = f.svc.ContinueDiagnosis(ctx, stale, "si")
	assert.ErrorIs(t, err, diagnosis.ErrStaleState)

	bad := step.State.Clone()
	bad.Candidates = []int{0, 42}
	_, err = f.svc.ContinueDiagnosis(ctx, bad, "no")
	assert.ErrorIs(t, err, diagnosis.ErrInvalidState)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ErrorsTotal.WithLabelValues(opContinue, "invalid_answer")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ErrorsTotal.WithLabelValues(opContinue, "stale_state")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ErrorsTotal.WithLabelValues(opContinue, "invalid_state")))

	f.logger.AssertLogged(t, zapcore.InfoLevel, "another knowledge version")
	f.logger.AssertNotLogged(t, zapcore.ErrorLevel, "diagnosis failed")
}

func TestService_StaleAfterReload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	step, err := f.svc.StartDiagnosis(ctx, "no enciende")
	require.NoError(t, err)

	updated := strings.Replace(washerJSON, "Sobrecarga", "Cortocircuito", 1)
	require.NoError(t, os.WriteFile(f.path, []byte(updated), 0o600))
	_, err = f.store.Reload(ctx)
	require.NoError(t, err)

	_, err = f.svc.ContinueDiagnosis(ctx, step.State, "si")
	assert.ErrorIs(t, err, diagnosis.ErrStaleState)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ReloadsTotal.WithLabelValues("changed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(f.metrics.KnowledgeSize))
}

func TestService_ReloadFailureMetric(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.path, []byte(`{`), 0o600))

	_, err := f.store.Reload(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ReloadsTotal.WithLabelValues("error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(f.metrics.KnowledgeSize))
}

func TestService_RankBySimilarity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	report, err := f.svc.RankBySimilarity(ctx, "manguera rota fuga_agua desgaste")
	require.NoError(t, err)
	require.NotEmpty(t, report.Matches)
	assert.Equal(t, "Manguera rota", report.Matches[0].Fault.Name)
	assert.Equal(t, 1.0, report.Matches[0].Score)
	assert.Empty(t, report.Message)
	assert.Equal(t, f.store.Current().Version(), report.KnowledgeVersion)
	f.tel.AssertSpanAttribute(t, "Service.RankBySimilarity", "similarity.top_score", 1.0)

	report, err = f.svc.RankBySimilarity(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, report.Matches)
	assert.Equal(t, msgNoSimilarFault, report.Message)
}

func TestService_MatchCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc, err := NewService(f.store, f.logger.Logger, nil, nil, WithMatchCache(4))
	require.NoError(t, err)

	first, err := svc.RankBySimilarity(ctx, "MANGUERA rota")
	require.NoError(t, err)
	require.NotEmpty(t, first.Matches)
	want := first.Matches[0]
	first.Matches[0].Score = 0

	second, err := svc.RankBySimilarity(ctx, "manguera rota")
	require.NoError(t, err)
	assert.Equal(t, want, second.Matches[0], "cached ranking is not shared with callers")

	updated := strings.Replace(washerJSON, "Desgaste", "Uso", 1)
	require.NoError(t, os.WriteFile(f.path, []byte(updated), 0o600))
	_, err = f.store.Reload(ctx)
	require.NoError(t, err)

	third, err := svc.RankBySimilarity(ctx, "manguera rota")
	require.NoError(t, err)
	assert.Equal(t, f.store.Current().Version(), third.KnowledgeVersion)

	var cached []interface{}
	for _, e := range f.logger.FilterMessage("similarity ranking").All() {
		cached = append(cached, e.ContextMap()["cached"])
	}
	assert.Equal(t, []interface{}{false, true, false}, cached)

	svc, err = NewService(f.store, nil, nil, nil, WithMatchCache(4), WithMatchCache(0))
	require.NoError(t, err)
	assert.Nil(t, svc.matches)
}

func TestService_Diagnose(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Diagnose(ctx, "", "gotea la máquina")
	require.NoError(t, err)
	assert.Equal(t, StrategyInteractive, res.Strategy)
	require.NotNil(t, res.Step)
	assert.Nil(t, res.Report)
	assert.Equal(t, diagnosis.KindSolved, res.Step.Kind)

	res, err = f.svc.Diagnose(ctx, StrategySimilarity, "manguera rota")
	require.NoError(t, err)
	assert.Equal(t, StrategySimilarity, res.Strategy)
	require.NotNil(t, res.Report)
	assert.Nil(t, res.Step)

	_, err = f.svc.Diagnose(ctx, "oraculo", "algo")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
	assert.ErrorIs(t, err, diagnosis.ErrValidation)

	_, err = f.svc.Diagnose(ctx, StrategyInteractive, "  ")
	assert.ErrorIs(t, err, diagnosis.ErrEmptyDescription)
}

func TestService_Knowledge(t *testing.T) {
	f := newFixture(t)
	s := f.svc.Knowledge()
	assert.Equal(t, 3, s.Faults)
	assert.Equal(t, f.store.Current().Version(), s.Version)
	assert.Contains(t, s.WithoutQuestion, knowledge.Attribute("fuga_agua"))
}

func TestErrorReason(t *testing.T) {
	assert.Equal(t, "empty_description", errorReason(diagnosis.ErrEmptyDescription))
	assert.Equal(t, "no_pending_question", errorReason(diagnosis.ErrNoPendingQuestion))
	assert.Equal(t, "unknown_strategy", errorReason(ErrUnknownStrategy))
	assert.Equal(t, "internal", errorReason(os.ErrClosed))
}
