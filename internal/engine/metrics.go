package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Latency: сколько занимает один вызов генератора
	GenerationDuration *prometheus.HistogramVec

	// Traffic: успешно созданные документы
	DocumentsGenerated prometheus.Counter

	// Errors: классификация отказов (generator, storage)
	GenerationErrors *prometheus.CounterVec

	// Saturation: состояние Circuit Breaker генератора (0 - ок, 1 - выбило)
	CircuitBreakerState prometheus.Gauge

	// Audit: заполненность буфера (backpressure)
	AuditBufferFill prometheus.Gauge

	// Console: переходы статусов документов и решения по рискам
	DocumentTransitions *prometheus.CounterVec
	RiskDecisions       *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// Null Object Pattern - Если рег не передан, используем локальный, который никуда не подключен
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		GenerationDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hrsd_generation_duration_seconds",
			Help:    "Histogram of content generator call latencies.",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"status"}),

		DocumentsGenerated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "hrsd_documents_generated_total",
			Help: "Total number of successfully generated policy documents.",
		}),

		GenerationErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hrsd_generation_errors_total",
			Help: "Total number of errors by source.",
		}, []string{"source"}), // источники: generator, storage

		CircuitBreakerState: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "hrsd_generator_circuit_breaker_state",
			Help: "Current state of the generator circuit breaker (0=closed, 1=open).",
		}),

		AuditBufferFill: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "hrsd_audit_buffer_utilization",
			Help: "Current number of events in audit buffer.",
		}),

		DocumentTransitions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hrsd_document_transitions_total",
			Help: "Total number of applied document status transitions.",
		}, []string{"status"}),

		RiskDecisions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hrsd_risk_decisions_total",
			Help: "Total number of risk approval workflow decisions.",
		}, []string{"decision"}), // submit, approve, reject
	}
}
