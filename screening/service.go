// Package screening связывает этапы проверки сделки: нормализация данных,
// построение запроса, обращение к базе знаний, сведение ответа, журнал и callback.
package screening

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"compliance/database"
	"compliance/lightrag"
	"compliance/normalization"
	"compliance/payload"
	"compliance/prompt"
	"compliance/reconcile"
)

// Querier отправляет запрос в базу знаний
type Querier interface {
	Query(ctx context.Context, prompt string) (reconcile.Reply, error)
}

// Journal сохраняет результаты проверок
type Journal interface {
	SaveResult(ctx context.Context, rec database.ScreeningRecord) error
}

// Deliverer доставляет решение на callback адрес в фоне
type Deliverer interface {
	Deliver(requestID, callbackURL string, v reconcile.Verdict)
}

// Request запрос на проверку сделки
type Request struct {
	Data        any
	RequestID   string
	CallbackURL string
}

// Result результат проверки
type Result struct {
	RequestID string `json:"request_id"`
	reconcile.Verdict
	Analysis   prompt.Analysis `json:"-"`
	DurationMs int64           `json:"-"`
}

// Preview данные и текст запроса без обращения к базе знаний
type Preview struct {
	Payload  payload.Payload `json:"payload"`
	Analysis prompt.Analysis `json:"analysis"`
	Prompt   string          `json:"prompt"`
}

// Service выполняет проверку сделок
type Service struct {
	builder   *prompt.Builder
	querier   Querier
	journal   Journal
	deliverer Deliverer
	metrics   *Metrics
	payload   payload.Options
	logger    *slog.Logger
}

// Option настраивает Service
type Option func(*Service)

// WithJournal включает журнал результатов
func WithJournal(j Journal) Option {
	return func(s *Service) { s.journal = j }
}

// WithDeliverer включает доставку callback
func WithDeliverer(d Deliverer) Option {
	return func(s *Service) { s.deliverer = d }
}

// WithMetrics задает метрики
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithPayloadOptions задает параметры нормализации входных данных
func WithPayloadOptions(opts payload.Options) Option {
	return func(s *Service) { s.payload = opts }
}

// NewService создает сервис. Построитель копируется, исходный не меняется.
func NewService(builder *prompt.Builder, querier Querier, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if builder == nil {
		builder = prompt.NewBuilder(prompt.DefaultHomeJurisdiction)
	}

	s := &Service{
		querier: querier,
		payload: payload.DefaultOptions(),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.payload.Logger == nil {
		s.payload.Logger = logger
	}

	b := *builder
	variants := b.Variants
	if variants == nil {
		variants = normalization.GenerateVariants
	}
	b.Variants = func(name string, kind normalization.EntityKind) []string {
		out := variants(name, kind)
		s.metrics.ObserveVariants(len(out))
		return out
	}
	s.builder = &b

	return s
}

// Check проверяет сделку. Ошибка возвращается только если база знаний недоступна;
// неразборчивый ответ дает решение flag.
func (s *Service) Check(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx = lightrag.WithRequestID(ctx, requestID)
	logger := s.logger.With("request_id", requestID)

	p := payload.Normalize(req.Data, s.payload)
	analysis := s.builder.Analyze(p)
	text := s.builder.Build(p)

	logger.Info("Screening started",
		"fields", len(p),
		"prompt_chars", len(text),
		"cross_border", analysis.CrossBorder,
		"transit", analysis.Transit,
		"inconsistency", analysis.Inconsistency)

	queryStart := time.Now()
	reply, err := s.querier.Query(ctx, text)
	s.metrics.ObserveUpstreamLatency(time.Since(queryStart))
	if err != nil {
		s.metrics.IncrementUpstreamFailure()
		logger.Error("Knowledge base query failed",
			"error", err,
			"duration", time.Since(start))
		return nil, fmt.Errorf("screening %s: %w", requestID, err)
	}

	v := reconcile.Reconcile(reply)
	s.metrics.IncrementVerdict(v.Verdict, v.RiskLevel)

	result := &Result{
		RequestID:  requestID,
		Verdict:    v,
		Analysis:   analysis,
		DurationMs: time.Since(start).Milliseconds(),
	}

	logger.Info("Screening completed",
		"verdict", v.Verdict,
		"risk_level", v.RiskLevel,
		"hits", v.Checks.HitNames(),
		"duration_ms", result.DurationMs)

	s.record(ctx, result, len(text))

	if req.CallbackURL != "" && s.deliverer != nil {
		s.deliverer.Deliver(requestID, req.CallbackURL, v)
	}

	return result, nil
}

// record пишет результат в журнал; ошибка журнала только логируется
func (s *Service) record(ctx context.Context, r *Result, promptChars int) {
	if s.journal == nil {
		return
	}

	checks, err := json.Marshal(r.Checks)
	if err != nil {
		s.logger.Warn("Failed to encode checks for journal", "request_id", r.RequestID, "error", err)
		checks = nil
	}

	rec := database.ScreeningRecord{
		RequestID:     r.RequestID,
		Verdict:       r.Verdict.Verdict,
		RiskLevel:     r.RiskLevel,
		CrossBorder:   r.Analysis.CrossBorder == "1",
		Inconsistency: r.Analysis.Inconsistency,
		Transit:       r.Analysis.Transit,
		PromptChars:   promptChars,
		DurationMs:    r.DurationMs,
		ChecksJSON:    string(checks),
	}
	if err := s.journal.SaveResult(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.Warn("Failed to save screening result",
			"request_id", r.RequestID,
			"error", err)
	}
}

// Preview нормализует данные и строит запрос без обращения к базе знаний
func (s *Service) Preview(data any) Preview {
	p := payload.Normalize(data, s.payload)
	return Preview{
		Payload:  p,
		Analysis: s.builder.Analyze(p),
		Prompt:   s.builder.Build(p),
	}
}

// Variants возвращает варианты названия
func (s *Service) Variants(name string, kind normalization.EntityKind) []string {
	return s.builder.Variants(name, kind)
}
