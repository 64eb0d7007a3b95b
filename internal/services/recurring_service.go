package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"finance-tracker/internal/config"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"

	"github.com/google/uuid"
)

type RecurringService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	userRepo        repositories.UserRepositoryInterface
	notifier        NotificationServiceInterface
	audit           AuditServiceInterface
	auditLogger     AuditLoggerInterface
	metrics         MetricsRecorderInterface
	circuitBreaker  CircuitBreakerInterface
	interval        time.Duration
	batchSize       int
	maxWorkers      int
	workerSemaphore chan struct{}
	logger          *slog.Logger
	now             func() time.Time
}

func NewRecurringService(
	transactionRepo repositories.TransactionRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	notifier NotificationServiceInterface,
	audit AuditServiceInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
	circuitBreaker CircuitBreakerInterface,
	cfg config.RecurringConfig,
	logger *slog.Logger,
) RecurringServiceInterface {
	maxWorkers := max(cfg.MaxWorkers, 1)
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	return &RecurringService{
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		audit:           audit,
		auditLogger:     auditLogger,
		metrics:         metrics,
		circuitBreaker:  circuitBreaker,
		interval:        cfg.Interval,
		batchSize:       batchSize,
		maxWorkers:      maxWorkers,
		workerSemaphore: make(chan struct{}, maxWorkers),
		logger:          logger,
		now:             time.Now,
	}
}

// Start runs a pass immediately and then on every tick until ctx is done.
// An in-flight pass is allowed to finish before Start returns.
func (s *RecurringService) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Warn("recurring transaction worker disabled, interval not positive")
		return
	}

	s.logger.Info("starting recurring transaction worker",
		slog.Duration("interval", s.interval),
		slog.Int("max_workers", s.maxWorkers),
		slog.Int("batch_size", s.batchSize),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runLogged(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("recurring transaction worker stopped")
			return
		case <-ticker.C:
			s.runLogged(ctx)
		}
	}
}

func (s *RecurringService) runLogged(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil {
		s.logger.Error("recurring run failed", slog.String("error", err.Error()))
	}
}

// RunOnce books one occurrence for every recurring transaction that is due.
// Each template is processed in its own database transaction; a failing
// template is counted and logged without stopping the others. Users whose
// templates produced occurrences get one summary email.
func (s *RecurringService) RunOnce(ctx context.Context) (models.RecurringRunResult, error) {
	var result models.RecurringRunResult
	startTime := time.Now()
	now := s.now()

	if s.circuitBreaker != nil && !s.circuitBreaker.Allow() {
		return result, ErrCircuitBreakerOpen
	}

	due, err := s.transactionRepo.ListDueRecurring(now, s.batchSize)
	if err != nil {
		if s.circuitBreaker != nil {
			s.circuitBreaker.RecordFailure()
		}
		return result, fmt.Errorf("failed to list due recurring transactions: %w", err)
	}
	if s.circuitBreaker != nil {
		s.circuitBreaker.RecordSuccess()
	}
	result.Due = len(due)

	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		occurrences = make(map[uuid.UUID][]models.Transaction)
	)

	for i := range due {
		if ctx.Err() != nil {
			break
		}
		template := &due[i]

		wg.Add(1)
		go func() {
			defer wg.Done()

			s.workerSemaphore <- struct{}{}
			defer func() { <-s.workerSemaphore }()

			occurrence, err := s.processTemplate(ctx, template, now)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, repositories.ErrRecurringNotDue):
			case err != nil:
				result.Failed++
			default:
				result.Processed++
				occurrences[template.UserID] = append(occurrences[template.UserID], *occurrence)
			}
		}()
	}
	wg.Wait()

	for userID, booked := range occurrences {
		if s.notify(ctx, userID, booked) {
			result.Notified++
		}
	}

	duration := time.Since(startTime)
	s.metrics.RecordProcessingTime(MetricRecurringRun, duration)
	s.auditLogger.LogRecurringRunCompleted(ctx, result.Processed, result.Failed, duration.Milliseconds())

	return result, nil
}

func (s *RecurringService) processTemplate(ctx context.Context, template *models.Transaction, now time.Time) (*models.Transaction, error) {
	startTime := time.Now()

	occurrence, err := s.transactionRepo.ProcessRecurring(template.ID, now)
	if err != nil {
		if errors.Is(err, repositories.ErrRecurringNotDue) {
			// another worker got there first
			return nil, err
		}
		s.metrics.IncrementCounter(MetricRecurringFailed, nil)
		s.auditLogger.LogRecurringFailed(ctx, template.ID, err.Error())
		return nil, err
	}

	s.metrics.IncrementCounter(MetricRecurringProcessed, nil)
	s.auditLogger.LogRecurringProcessed(ctx, template.ID, occurrence.ID, time.Since(startTime).Milliseconds())
	s.audit.Record(ctx, &template.UserID, models.AuditActionTransactionRecurred, models.AuditResourceTransaction, occurrence.ID.String(), map[string]interface{}{
		"template_id": template.ID.String(),
		"account_id":  occurrence.AccountID.String(),
		"amount":      occurrence.Amount.StringFixed(2),
		"interval":    template.RecurringInterval,
	})

	return occurrence, nil
}

func (s *RecurringService) notify(ctx context.Context, userID uuid.UUID, booked []models.Transaction) bool {
	if s.notifier == nil {
		return false
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		s.logger.Warn("skipping recurring summary, user lookup failed",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		return false
	}

	if err := s.notifier.SendRecurringSummary(ctx, user, booked); err != nil {
		if !errors.Is(err, ErrEmailDisabled) && !errors.Is(err, ErrNoRecipient) {
			s.logger.Error("failed to send recurring summary",
				slog.String("user_id", userID.String()),
				slog.String("error", err.Error()),
			)
		}
		return false
	}
	return true
}
