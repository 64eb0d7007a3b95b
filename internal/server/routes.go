package server

import (
	"finance-tracker/internal/handlers"
	"finance-tracker/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes(deps Dependencies) {
	cfg := s.config

	health := handlers.NewHealthCheckHandler(deps.DB)
	accounts := handlers.NewAccountHandler(deps.Accounts)
	transactions := handlers.NewTransactionHandler(deps.Transactions)
	dashboard := handlers.NewDashboardHandler(deps.Charts)
	categories := handlers.NewCategoryHandler(deps.Categories)
	activity := handlers.NewActivityHandler(deps.Audit)
	statements := handlers.NewStatementHandler(deps.Statements)

	metrics := deps.Metrics
	if metrics == nil {
		metrics = promhttp.Handler()
	}

	s.echo.GET("/health", health.HealthCheck)
	s.echo.GET("/metrics", echo.WrapHandler(metrics))

	api := s.echo.Group("/api/v1",
		middleware.Shield(deps.Shield),
		middleware.RateLimiter(cfg.Security.RateLimitPerSecond, cfg.Security.RateLimitBurst),
		middleware.RequireSession(deps.Sessions, deps.Users, cfg.Auth.SessionCookie),
	)

	api.GET("/dashboard", dashboard.GetDashboard)
	api.GET("/categories", categories.ListCategories)
	api.GET("/activity", activity.GetActivity)

	api.GET("/accounts", accounts.GetUserAccounts)
	api.POST("/accounts", accounts.CreateAccount)
	api.GET("/accounts/:accountId", accounts.GetAccount)
	api.PATCH("/accounts/:accountId", accounts.UpdateAccount)
	api.DELETE("/accounts/:accountId", accounts.DeleteAccount)
	api.PUT("/accounts/:accountId/default", accounts.UpdateDefaultAccount)
	api.GET("/accounts/:accountId/transactions", transactions.ListAccountTransactions)
	api.GET("/accounts/:accountId/chart", dashboard.GetAccountChart)
	api.GET("/accounts/:accountId/statement", statements.GetStatement)

	createLimit := middleware.UserRateLimiter(cfg.Security.TransactionCreatePerHour, cfg.Security.TransactionCreatePerHour)
	api.POST("/transactions", transactions.CreateTransaction, createLimit)
	api.POST("/transactions/bulk-delete", transactions.BulkDeleteTransactions)
	api.GET("/transactions/:transactionId", transactions.GetTransaction)
	api.PUT("/transactions/:transactionId", transactions.UpdateTransaction)

	if cfg.IsDevelopment() {
		dev := handlers.NewDevHandler(deps.Transactions)
		api.POST("/dev/accounts/:accountId/generate-test-data", dev.GenerateTestData)
		s.logger.Warn("development endpoints enabled", "prefix", "/api/v1/dev")
	}
}
