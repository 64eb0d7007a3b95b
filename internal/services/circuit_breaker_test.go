package services

import (
	"testing"
	"time"

	"finance-tracker/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

type transition struct {
	from, to CircuitBreakerState
}

func newTestBreaker(t *testing.T) (*CircuitBreaker, *time.Time, *[]transition) {
	t.Helper()
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	var seen []transition

	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:            "shield",
		MaxFailures:     2,
		ResetTimeout:    10 * time.Second,
		HalfOpenMaxSucc: 2,
	}, func(name string, from, to CircuitBreakerState) {
		assert.Equal(t, "shield", name)
		seen = append(seen, transition{from, to})
	}).(*CircuitBreaker)
	cb.now = func() time.Time { return now }

	return cb, &now, &seen
}

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb, _, seen := newTestBreaker(t)

	assert.True(t, cb.Allow())
	cb.RecordFailure()
	assert.Equal(t, "closed", cb.GetState())
	assert.Equal(t, 1, cb.GetFailureCount())

	cb.RecordFailure()
	assert.Equal(t, "open", cb.GetState())
	assert.False(t, cb.Allow())
	assert.Equal(t, []transition{{StateClosed, StateOpen}}, *seen)
}

func TestCircuitBreaker_SuccessResetsFailures(t *testing.T) {
	cb, _, _ := newTestBreaker(t)

	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()

	assert.Equal(t, "closed", cb.GetState())
	assert.Equal(t, 1, cb.GetFailureCount())
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb, now, seen := newTestBreaker(t)
	cb.RecordFailure()
	cb.RecordFailure()

	*now = now.Add(11 * time.Second)
	assert.True(t, cb.Allow())
	assert.Equal(t, "half-open", cb.GetState())

	cb.RecordSuccess()
	assert.Equal(t, "half-open", cb.GetState())
	cb.RecordSuccess()
	assert.Equal(t, "closed", cb.GetState())
	assert.Equal(t, 0, cb.GetFailureCount())

	assert.Equal(t, []transition{
		{StateClosed, StateOpen},
		{StateOpen, StateHalfOpen},
		{StateHalfOpen, StateClosed},
	}, *seen)
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb, now, _ := newTestBreaker(t)
	cb.RecordFailure()
	cb.RecordFailure()

	*now = now.Add(11 * time.Second)
	assert.True(t, cb.Allow())
	cb.RecordFailure()

	assert.Equal(t, "open", cb.GetState())
	assert.False(t, cb.Allow())
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb, _, _ := newTestBreaker(t)
	cb.RecordFailure()
	cb.RecordFailure()

	cb.Reset()
	assert.Equal(t, "closed", cb.GetState())
	assert.Equal(t, 0, cb.GetFailureCount())
	assert.True(t, cb.Allow())
}

func TestDefaultCircuitBreakerConfig(t *testing.T) {
	cfg := DefaultCircuitBreakerConfig("database")
	assert.Equal(t, "database", cfg.Name)
	assert.Equal(t, 5, cfg.MaxFailures)
	assert.Equal(t, 30*time.Second, cfg.ResetTimeout)
	assert.Equal(t, "database", NewCircuitBreaker(cfg, nil).Name())
}

func TestObserveCircuitBreaker(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	auditLogger := service_mocks.NewMockAuditLoggerInterface(ctrl)
	metrics := service_mocks.NewMockMetricsRecorderInterface(ctrl)

	auditLogger.EXPECT().LogCircuitBreakerStateChange(gomock.Any(), "email", "closed", "open")
	metrics.EXPECT().RecordGauge(MetricCircuitBreakerState, float64(StateOpen), map[string]string{"service": "email"})

	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "email", MaxFailures: 1, ResetTimeout: time.Minute, HalfOpenMaxSucc: 1},
		ObserveCircuitBreaker(auditLogger, metrics))
	cb.RecordFailure()
	assert.Equal(t, "open", cb.GetState())
}
