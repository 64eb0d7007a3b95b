package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"finance-tracker/internal/config"
	"finance-tracker/internal/dto"
)

const (
	shieldCheckPath = "/check"

	ShieldConclusionAllow = "ALLOW"
	ShieldConclusionDeny  = "DENY"
	ShieldConclusionError = "ERROR"

	shieldRuleShield    = "SHIELD"
	shieldRuleDetectBot = "DETECT_BOT"
)

type AuthTransport struct {
	apiKey string
	base   http.RoundTripper
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	return t.base.RoundTrip(req)
}

// ShieldService screens inbound requests against the hosted shield API.
// Any failure to get a decision lets the request through.
type ShieldService struct {
	config         config.ShieldConfig
	client         *http.Client
	circuitBreaker CircuitBreakerInterface
	auditLogger    AuditLoggerInterface
	metrics        MetricsRecorderInterface
	logger         *slog.Logger
}

func NewShieldService(
	cfg config.ShieldConfig,
	circuitBreaker CircuitBreakerInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) ShieldServiceInterface {
	transport := &AuthTransport{
		apiKey: cfg.APIKey,
		base:   http.DefaultTransport,
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	return &ShieldService{
		config: cfg,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		circuitBreaker: circuitBreaker,
		auditLogger:    auditLogger,
		metrics:        metrics,
		logger:         logger,
	}
}

func (s *ShieldService) dryRun() bool {
	return s.config.Mode == config.ShieldModeDryRun
}

func (s *ShieldService) rules() []dto.ShieldRule {
	mode := s.config.Mode
	if mode == "" {
		mode = config.ShieldModeLive
	}
	return []dto.ShieldRule{
		{Type: shieldRuleShield, Mode: mode},
		{Type: shieldRuleDetectBot, Mode: mode, Allow: s.config.AllowedBots},
	}
}

func (s *ShieldService) buildRequest(
	ctx context.Context,
	method, path string,
	body any,
) (*http.Request, error) {

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		method,
		strings.TrimRight(s.config.BaseURL, "/")+path,
		buf,
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	return req, nil
}

func (s *ShieldService) do(req *http.Request) (*http.Response, []byte, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error(
			"shield request failed",
			"method", req.Method,
			"url", req.URL.String(),
			"error", err,
		)
		return nil, nil, err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()

	if err != nil {
		return nil, nil, fmt.Errorf("read response body: %w", err)
	}

	return resp, body, nil
}

// Decide returns the shield's verdict for a request. Only a DENY in LIVE
// mode blocks. Transport errors, error responses and an open breaker all
// fail open; the returned error is reserved for a cancelled caller context.
func (s *ShieldService) Decide(ctx context.Context, details dto.ShieldRequestDetails) (*dto.ShieldDecision, error) {
	if !s.circuitBreaker.Allow() {
		s.metrics.IncrementCounter(MetricShieldError, map[string]string{"reason": "circuit_open"})
		return s.failOpen("circuit breaker open"), nil
	}

	req, err := s.buildRequest(ctx, http.MethodPost, shieldCheckPath, dto.ShieldDecideRequest{
		Details: details,
		Rules:   s.rules(),
	})
	if err != nil {
		return s.failOpen(err.Error()), nil
	}

	resp, body, err := s.do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.circuitBreaker.RecordFailure()
		s.metrics.IncrementCounter(MetricShieldError, map[string]string{"reason": "transport"})
		return s.failOpen(err.Error()), nil
	}

	switch resp.StatusCode {

	case http.StatusOK:
		var decided dto.ShieldDecideResponse
		if err := json.Unmarshal(body, &decided); err != nil {
			s.circuitBreaker.RecordFailure()
			s.metrics.IncrementCounter(MetricShieldError, map[string]string{"reason": "decode"})
			return s.failOpen(fmt.Sprintf("decode decision: %v", err)), nil
		}
		s.circuitBreaker.RecordSuccess()
		return s.decision(ctx, details, &decided), nil

	default:
		s.circuitBreaker.RecordFailure()
		s.metrics.IncrementCounter(MetricShieldError, map[string]string{"reason": "status"})

		var errResp dto.ShieldErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			s.logger.Error(
				"shield error response",
				"status", resp.StatusCode,
				"code", errResp.Error.Code,
				"message", errResp.Error.Message,
			)
			return s.failOpen(errResp.Error.Message), nil
		}

		return s.failOpen(fmt.Sprintf("unexpected shield response (%d)", resp.StatusCode)), nil
	}
}

func (s *ShieldService) decision(ctx context.Context, details dto.ShieldRequestDetails, decided *dto.ShieldDecideResponse) *dto.ShieldDecision {
	conclusion := strings.ToUpper(decided.Conclusion)
	if conclusion == "" {
		conclusion = ShieldConclusionError
	}

	reason := ""
	if decided.Reason != nil {
		reason = decided.Reason.Type
		if decided.Reason.Bot != "" {
			reason += ":" + decided.Reason.Bot
		}
	}

	d := &dto.ShieldDecision{
		ID:         decided.ID,
		Allowed:    conclusion != ShieldConclusionDeny || s.dryRun(),
		Conclusion: conclusion,
		Reason:     reason,
		DryRun:     s.dryRun(),
		FailedOpen: conclusion == ShieldConclusionError,
	}

	s.metrics.IncrementCounter(MetricShieldDecision, map[string]string{"conclusion": conclusion})
	if conclusion != ShieldConclusionAllow {
		s.auditLogger.LogShieldDecision(ctx, conclusion, reason, details.IP, details.Path, d.DryRun)
	}

	return d
}

func (s *ShieldService) failOpen(reason string) *dto.ShieldDecision {
	s.logger.Warn("shield unavailable, allowing request", slog.String("reason", reason))
	return &dto.ShieldDecision{
		Allowed:    true,
		Conclusion: ShieldConclusionError,
		Reason:     reason,
		DryRun:     s.dryRun(),
		FailedOpen: true,
	}
}
