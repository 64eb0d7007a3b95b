package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type correlationKey string

const (
	CorrelationIDKey correlationKey = "correlation_id"
	RequestIDKey     correlationKey = "request_id"
)

type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) AuditLoggerInterface {
	return &AuditLogger{
		logger: logger,
	}
}

func (al *AuditLogger) LogBalanceReconciled(ctx context.Context, accountID uuid.UUID, delta, reason string) {
	al.logger.InfoContext(ctx, "balance reconciled",
		slog.String("event_type", "balance_reconciled"),
		slog.String("account_id", accountID.String()),
		slog.String("delta", delta),
		slog.String("reason", reason),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogDefaultAccountChanged(ctx context.Context, userID, accountID uuid.UUID) {
	al.logger.InfoContext(ctx, "default account changed",
		slog.String("event_type", "default_account_changed"),
		slog.String("user_id", userID.String()),
		slog.String("account_id", accountID.String()),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogTransactionsBulkDeleted(ctx context.Context, userID uuid.UUID, requested, deleted int) {
	level := slog.LevelInfo
	if deleted < requested {
		level = slog.LevelWarn
	}

	al.logger.LogAttrs(ctx, level, "transactions bulk deleted",
		slog.String("event_type", "transactions_bulk_deleted"),
		slog.String("user_id", userID.String()),
		slog.Int("requested", requested),
		slog.Int("deleted", deleted),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogRecurringProcessed(ctx context.Context, templateID, occurrenceID uuid.UUID, durationMs int64) {
	al.logger.InfoContext(ctx, "recurring transaction processed",
		slog.String("event_type", "recurring_processed"),
		slog.String("template_id", templateID.String()),
		slog.String("occurrence_id", occurrenceID.String()),
		slog.Int64("duration_ms", durationMs),
		slog.Time("timestamp", time.Now()),
	)
}

func (al *AuditLogger) LogRecurringFailed(ctx context.Context, templateID uuid.UUID, errorMsg string) {
	al.logger.WarnContext(ctx, "recurring transaction failed",
		slog.String("event_type", "recurring_failed"),
		slog.String("template_id", templateID.String()),
		slog.String("error", errorMsg),
		slog.Time("timestamp", time.Now()),
	)
}

func (al *AuditLogger) LogRecurringRunCompleted(ctx context.Context, processed, failed int, durationMs int64) {
	al.logger.InfoContext(ctx, "recurring run completed",
		slog.String("event_type", "recurring_run_completed"),
		slog.Int("processed", processed),
		slog.Int("failed", failed),
		slog.Int64("duration_ms", durationMs),
		slog.Time("timestamp", time.Now()),
	)
}

func (al *AuditLogger) LogCircuitBreakerStateChange(ctx context.Context, service string, oldState, newState string) {
	al.logger.WarnContext(ctx, "circuit breaker state change",
		slog.String("event_type", "circuit_breaker_state_change"),
		slog.String("service", service),
		slog.String("old_state", oldState),
		slog.String("new_state", newState),
		slog.Time("timestamp", time.Now()),
	)
}

func (al *AuditLogger) LogShieldDecision(ctx context.Context, conclusion, reason, ip, path string, dryRun bool) {
	al.logger.InfoContext(ctx, "shield decision",
		slog.String("event_type", "shield_decision"),
		slog.String("conclusion", conclusion),
		slog.String("reason", reason),
		slog.String("ip", ip),
		slog.String("path", path),
		slog.Bool("dry_run", dryRun),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogEmailSent(ctx context.Context, to, subject, messageID string) {
	al.logger.InfoContext(ctx, "email sent",
		slog.String("event_type", "email_sent"),
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("message_id", messageID),
		slog.Time("timestamp", time.Now()),
	)
}

func (al *AuditLogger) LogEmailFailed(ctx context.Context, to, subject, errorMsg string) {
	al.logger.WarnContext(ctx, "email failed",
		slog.String("event_type", "email_failed"),
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("error", errorMsg),
		slog.Time("timestamp", time.Now()),
	)
}

func getCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	if correlationID, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return correlationID
	}

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}

	return ""
}
