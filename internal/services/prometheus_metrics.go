package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric names understood by PrometheusMetrics.
const (
	MetricBalanceReconciled     = "balance.reconciled"
	MetricDefaultAccountChanged = "account.default_changed"
	MetricTransactionsDeleted   = "transactions.deleted"
	MetricRecurringProcessed    = "recurring.processed"
	MetricRecurringFailed       = "recurring.failed"
	MetricRecurringRun          = "recurring.run"
	MetricShieldDecision        = "shield.decision"
	MetricShieldError           = "shield.error"
	MetricEmailSent             = "email.sent"
	MetricEmailFailed           = "email.failed"
	MetricCircuitBreakerState   = "circuit_breaker.state"
	MetricStatementRendered     = "statement.rendered"
	MetricStatementRender       = "statement.render"
)

type PrometheusMetrics struct {
	balanceReconciliations *prometheus.CounterVec
	defaultAccountChanges  prometheus.Counter
	transactionsDeleted    prometheus.Counter
	recurringProcessed     *prometheus.CounterVec
	recurringRunDuration   prometheus.Histogram
	shieldDecisions        *prometheus.CounterVec
	emailsTotal            *prometheus.CounterVec
	circuitBreakerState    *prometheus.GaugeVec
	statementsRendered     prometheus.Counter
	statementDuration      prometheus.Histogram
}

// NewPrometheusMetrics registers the application collectors with reg.
func NewPrometheusMetrics(reg prometheus.Registerer) MetricsRecorderInterface {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		balanceReconciliations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "account_balance_reconciliations_total",
				Help: "Total number of account balance adjustments by cause",
			},
			[]string{"reason"},
		),
		defaultAccountChanges: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "default_account_changes_total",
				Help: "Total number of default account changes",
			},
		),
		transactionsDeleted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "transactions_bulk_deleted_total",
				Help: "Total number of transactions removed by bulk delete",
			},
		),
		recurringProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recurring_transactions_processed_total",
				Help: "Total number of recurring occurrences booked",
			},
			[]string{"status"},
		),
		recurringRunDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "recurring_run_duration_milliseconds",
				Help:    "Duration of a recurring processing run in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 14),
			},
		),
		shieldDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shield_decisions_total",
				Help: "Total number of shield decisions by conclusion",
			},
			[]string{"conclusion"},
		),
		emailsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "emails_total",
				Help: "Total number of notification emails by status",
			},
			[]string{"status"},
		),
		circuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"service"},
		),
		statementsRendered: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "statements_rendered_total",
				Help: "Total number of PDF statements rendered",
			},
		),
		statementDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "statement_render_duration_seconds",
				Help:    "PDF statement render duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case MetricBalanceReconciled:
		m.balanceReconciliations.WithLabelValues(tags["reason"]).Inc()
	case MetricDefaultAccountChanged:
		m.defaultAccountChanges.Inc()
	case MetricRecurringProcessed:
		m.recurringProcessed.WithLabelValues("success").Inc()
	case MetricRecurringFailed:
		m.recurringProcessed.WithLabelValues("failed").Inc()
	case MetricShieldDecision:
		if conclusion := tags["conclusion"]; conclusion != "" {
			m.shieldDecisions.WithLabelValues(conclusion).Inc()
		}
	case MetricShieldError:
		m.shieldDecisions.WithLabelValues("ERROR").Inc()
	case MetricEmailSent:
		m.emailsTotal.WithLabelValues("sent").Inc()
	case MetricEmailFailed:
		m.emailsTotal.WithLabelValues("failed").Inc()
	case MetricStatementRendered:
		m.statementsRendered.Inc()
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case MetricRecurringRun:
		m.recurringRunDuration.Observe(float64(duration.Milliseconds()))
	case MetricStatementRender:
		m.statementDuration.Observe(duration.Seconds())
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case MetricCircuitBreakerState:
		m.circuitBreakerState.WithLabelValues(tags["service"]).Set(value)
	case MetricTransactionsDeleted:
		m.transactionsDeleted.Add(value)
	}
}
