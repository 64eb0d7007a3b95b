package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"finance-tracker/internal/config"
	"finance-tracker/internal/dto"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories/repository_mocks"
	"finance-tracker/internal/services"
	"finance-tracker/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/suite"
)

type pingDB struct{ err error }

func (p pingDB) HealthCheck(context.Context) error { return p.err }

type ServerSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	sessions     *service_mocks.MockSessionVerifierInterface
	users        *repository_mocks.MockUserRepositoryInterface
	accounts     *service_mocks.MockAccountServiceInterface
	transactions *service_mocks.MockTransactionServiceInterface
	userID       uuid.UUID
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.sessions = service_mocks.NewMockSessionVerifierInterface(s.ctrl)
	s.users = repository_mocks.NewMockUserRepositoryInterface(s.ctrl)
	s.accounts = service_mocks.NewMockAccountServiceInterface(s.ctrl)
	s.transactions = service_mocks.NewMockTransactionServiceInterface(s.ctrl)
	s.userID = uuid.New()
}

func (s *ServerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServerSuite) newServer(environment string, createPerHour int) *Server {
	cfg := &config.Config{
		Server: config.ServerConfig{Environment: environment, CORSAllowOrigins: []string{"https://app.example.com"}},
		Auth:   config.AuthConfig{SessionCookie: config.DefaultSessionCookie},
		Security: config.SecurityConfig{
			RateLimitPerSecond:       100,
			RateLimitBurst:           100,
			TransactionCreatePerHour: createPerHour,
		},
	}

	reg := prometheus.NewRegistry()
	deps := Dependencies{
		DB:           pingDB{},
		Users:        s.users,
		Sessions:     s.sessions,
		Accounts:     s.accounts,
		Transactions: s.transactions,
		Categories:   services.NewCategoryService(),
		Metrics:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}
	return New(cfg, deps, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *ServerSuite) expectSession() {
	s.sessions.EXPECT().ExtractTokenFromHeader("Bearer good-token").Return("good-token", nil).AnyTimes()
	s.sessions.EXPECT().Verify("good-token").Return(&models.SessionClaims{Email: "ada@example.com"}, nil).AnyTimes()
	s.users.EXPECT().EnsureUser(gomock.Any()).Return(&models.User{ID: s.userID, Email: "ada@example.com"}, nil).AnyTimes()
}

func (s *ServerSuite) do(srv *Server, method, target string, body interface{}, authenticated bool) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		req.Header.Set("Authorization", "Bearer good-token")
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func (s *ServerSuite) code(rec *httptest.ResponseRecorder) string {
	var body struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return body.Code
}

func (s *ServerSuite) TestHealthAndMetricsArePublic() {
	srv := s.newServer("production", 10)

	rec := s.do(srv, http.MethodGet, "/health", nil, false)
	s.Equal(http.StatusOK, rec.Code)
	s.NotEmpty(rec.Header().Get("X-Trace-ID"))
	s.Equal("nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = s.do(srv, http.MethodGet, "/metrics", nil, false)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *ServerSuite) TestProtectedRoutesNeedSession() {
	srv := s.newServer("production", 10)

	rec := s.do(srv, http.MethodGet, "/api/v1/accounts", nil, false)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("AUTH_001", s.code(rec))
}

func (s *ServerSuite) TestAuthenticatedRequestReachesHandler() {
	s.expectSession()
	s.accounts.EXPECT().GetUserAccounts(gomock.Any(), s.userID).Return([]dto.AccountSummary{}, nil)

	srv := s.newServer("production", 10)
	rec := s.do(srv, http.MethodGet, "/api/v1/accounts", nil, true)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"success":true,"data":[]}`, rec.Body.String())
}

func (s *ServerSuite) TestCategoriesRoute() {
	s.expectSession()

	srv := s.newServer("production", 10)
	rec := s.do(srv, http.MethodGet, "/api/v1/categories?type=INCOME", nil, true)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *ServerSuite) TestUnknownRouteUsesErrorEnvelope() {
	srv := s.newServer("production", 10)

	rec := s.do(srv, http.MethodGet, "/nope", nil, false)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("SYSTEM_005", s.code(rec))
}

func (s *ServerSuite) TestDevRoutesOnlyInDevelopment() {
	s.expectSession()
	accountID := uuid.New()
	target := "/api/v1/dev/accounts/" + accountID.String() + "/generate-test-data"

	prod := s.newServer("production", 10)
	rec := s.do(prod, http.MethodPost, target, nil, true)
	s.Equal(http.StatusNotFound, rec.Code)

	s.transactions.EXPECT().GenerateTestData(gomock.Any(), s.userID, accountID, 0, 0).Return(60, nil)
	dev := s.newServer("development", 10)
	rec = s.do(dev, http.MethodPost, target, nil, true)
	s.Equal(http.StatusCreated, rec.Code)
}

func (s *ServerSuite) TestTransactionCreationIsLimitedPerUser() {
	s.expectSession()
	s.transactions.EXPECT().CreateTransaction(gomock.Any(), s.userID, gomock.Any()).
		Return(&models.Transaction{ID: uuid.New()}, nil).Times(2)

	srv := s.newServer("production", 2)
	body := dto.TransactionRequest{Type: "EXPENSE", Amount: "12.00", Category: "food"}

	s.Equal(http.StatusCreated, s.do(srv, http.MethodPost, "/api/v1/transactions", body, true).Code)
	s.Equal(http.StatusCreated, s.do(srv, http.MethodPost, "/api/v1/transactions", body, true).Code)

	rec := s.do(srv, http.MethodPost, "/api/v1/transactions", body, true)
	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.Equal("SYSTEM_004", s.code(rec))
}
