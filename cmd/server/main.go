package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"finance-tracker/internal/config"
	"finance-tracker/internal/database"
	"finance-tracker/internal/repositories"
	"finance-tracker/internal/server"
	"finance-tracker/internal/services"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Initialize(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close database", "error", err)
		}
	}()

	userRepo := repositories.NewUserRepository(db.DB)
	accountRepo := repositories.NewAccountRepository(db.DB)
	transactionRepo := repositories.NewTransactionRepository(db.DB)
	auditRepo := repositories.NewAuditLogRepository(db.DB)

	metrics := services.NewPrometheusMetrics(prometheus.DefaultRegisterer)
	auditLogger := services.NewAuditLogger(logger)
	audit := services.NewAuditService(auditRepo, logger)
	categories := services.NewCategoryService()

	accounts := services.NewAccountService(accountRepo, transactionRepo, audit, auditLogger, metrics, logger)
	transactions := services.NewTransactionService(
		accountRepo,
		transactionRepo,
		categories,
		services.NewTransactionGenerator(),
		audit,
		auditLogger,
		metrics,
		logger,
	)
	charts := services.NewChartService(accountRepo, transactionRepo, accounts)
	statements := services.NewStatementService(accountRepo, transactionRepo, metrics, logger)
	notifications := services.NewNotificationService(cfg.Email, auditLogger, metrics, logger)

	breakerObserver := services.ObserveCircuitBreaker(auditLogger, metrics)

	var shield services.ShieldServiceInterface
	if cfg.ShieldEnabled() {
		shield = services.NewShieldService(
			cfg.Shield,
			services.NewCircuitBreaker(services.DefaultCircuitBreakerConfig("shield"), breakerObserver),
			auditLogger,
			metrics,
			logger,
		)
	} else {
		logger.Warn("ARCJET_KEY not set, request shield disabled")
	}

	srv := server.New(cfg, server.Dependencies{
		DB:           db,
		Users:        userRepo,
		Sessions:     services.NewSessionVerifier(cfg.Auth),
		Shield:       shield,
		Accounts:     accounts,
		Transactions: transactions,
		Charts:       charts,
		Categories:   categories,
		Statements:   statements,
		Audit:        audit,
	}, logger)

	var wg sync.WaitGroup
	if cfg.Recurring.Enabled {
		recurring := services.NewRecurringService(
			transactionRepo,
			userRepo,
			notifications,
			audit,
			auditLogger,
			metrics,
			services.NewCircuitBreaker(services.DefaultCircuitBreakerConfig("recurring"), breakerObserver),
			cfg.Recurring,
			logger,
		)
		wg.Add(1)
		go func() {
			defer wg.Done()
			recurring.Start(ctx)
		}()
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case err := <-serverErr:
		stop()
		wg.Wait()
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	wg.Wait()
	return nil
}
