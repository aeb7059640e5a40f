package screening

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics метрики конвейера проверки
type Metrics struct {
	// Решения по verdict и risk_level
	Verdicts *prometheus.CounterVec

	// Длительность запроса к базе знаний
	UpstreamLatency prometheus.Histogram

	// Неудачные запросы к базе знаний
	UpstreamFailures prometheus.Counter

	// Неудачные доставки callback
	CallbackFailures prometheus.Counter

	// Количество вариантов на одно название
	VariantsGenerated prometheus.Histogram
}

// NewMetrics регистрирует метрики в reg; nil означает глобальный реестр
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "compliance_verdicts_total",
			Help: "Screening verdicts by verdict and risk level",
		}, []string{"verdict", "risk_level"}),

		UpstreamLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "compliance_upstream_duration_seconds",
			Help:    "Duration of knowledge base queries including retries",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 180},
		}),

		UpstreamFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "compliance_upstream_failures_total",
			Help: "Knowledge base queries that failed after all retries",
		}),

		CallbackFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "compliance_callback_failures_total",
			Help: "Callback deliveries that failed",
		}),

		VariantsGenerated: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "compliance_name_variants",
			Help:    "Number of name variants generated per name",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
		}),
	}
}

// IncrementVerdict учитывает решение
func (m *Metrics) IncrementVerdict(verdict, risk string) {
	if m != nil {
		m.Verdicts.WithLabelValues(verdict, risk).Inc()
	}
}

// ObserveUpstreamLatency записывает длительность запроса к базе знаний
func (m *Metrics) ObserveUpstreamLatency(d time.Duration) {
	if m != nil {
		m.UpstreamLatency.Observe(d.Seconds())
	}
}

// IncrementUpstreamFailure учитывает неудачный запрос
func (m *Metrics) IncrementUpstreamFailure() {
	if m != nil {
		m.UpstreamFailures.Inc()
	}
}

// ObserveVariants записывает число вариантов названия
func (m *Metrics) ObserveVariants(n int) {
	if m != nil {
		m.VariantsGenerated.Observe(float64(n))
	}
}

// CallbackFailureHook возвращает обработчик для callback.WithFailureHook
func (m *Metrics) CallbackFailureHook() func(string, error) {
	return func(string, error) {
		if m != nil {
			m.CallbackFailures.Inc()
		}
	}
}
