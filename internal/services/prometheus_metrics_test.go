package services

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetrics(reg).(*PrometheusMetrics)

	m.IncrementCounter(MetricBalanceReconciled, map[string]string{"reason": "create"})
	m.IncrementCounter(MetricBalanceReconciled, map[string]string{"reason": "create"})
	m.IncrementCounter(MetricDefaultAccountChanged, nil)
	m.IncrementCounter(MetricRecurringProcessed, nil)
	m.IncrementCounter(MetricRecurringFailed, nil)
	m.IncrementCounter(MetricShieldDecision, map[string]string{"conclusion": "DENY"})
	m.IncrementCounter(MetricShieldError, nil)
	m.IncrementCounter(MetricEmailSent, nil)
	m.IncrementCounter("unknown.metric", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.balanceReconciliations.WithLabelValues("create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.defaultAccountChanges))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recurringProcessed.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recurringProcessed.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.shieldDecisions.WithLabelValues("DENY")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.shieldDecisions.WithLabelValues("ERROR")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.emailsTotal.WithLabelValues("sent")))
}

func TestPrometheusMetrics_GaugesAndHistograms(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetrics(reg).(*PrometheusMetrics)

	m.RecordGauge(MetricCircuitBreakerState, 1, map[string]string{"service": "shield"})
	m.RecordGauge(MetricTransactionsDeleted, 3, nil)
	m.RecordGauge(MetricTransactionsDeleted, 2, nil)
	m.RecordProcessingTime(MetricRecurringRun, 25*time.Millisecond)
	m.RecordProcessingTime(MetricStatementRender, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.circuitBreakerState.WithLabelValues("shield")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.transactionsDeleted))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["recurring_run_duration_milliseconds"])
	assert.True(t, names["statement_render_duration_seconds"])
}

func TestPrometheusMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewPrometheusMetrics(prometheus.NewRegistry())
		NewPrometheusMetrics(prometheus.NewRegistry())
	})
}
