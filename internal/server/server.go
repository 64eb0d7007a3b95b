package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"finance-tracker/internal/config"
	"finance-tracker/internal/handlers"
	"finance-tracker/internal/middleware"
	"finance-tracker/internal/repositories"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Dependencies are the collaborators the HTTP surface is built from.
// Shield may be nil, which disables request screening.
type Dependencies struct {
	DB           handlers.HealthChecker
	Users        repositories.UserRepositoryInterface
	Sessions     services.SessionVerifierInterface
	Shield       services.ShieldServiceInterface
	Accounts     services.AccountServiceInterface
	Transactions services.TransactionServiceInterface
	Charts       services.ChartServiceInterface
	Categories   services.CategoryServiceInterface
	Statements   services.StatementServiceInterface
	Audit        services.AuditServiceInterface
	Metrics      http.Handler
}

type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *slog.Logger
}

func New(cfg *config.Config, deps Dependencies, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler

	e.Use(middleware.PanicRecovery())
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.Server.CORSAllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, middleware.TraceIDHeader},
		ExposeHeaders:    []string{middleware.TraceIDHeader},
		AllowCredentials: true,
	}))

	s := &Server{echo: e, config: cfg, logger: logger}
	s.registerRoutes(deps)
	return s
}

// ServeHTTP lets the server be exercised without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:              net.JoinHostPort(s.config.Server.Host, s.config.Server.Port),
		ReadTimeout:       s.config.Server.ReadTimeout,
		WriteTimeout:      s.config.Server.WriteTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("http server listening", "addr", srv.Addr, "environment", s.config.Server.Environment)
	if err := s.echo.StartServer(srv); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
