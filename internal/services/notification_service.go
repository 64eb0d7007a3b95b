package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"finance-tracker/internal/config"
	"finance-tracker/internal/models"

	"github.com/resend/resend-go/v2"
	"github.com/shopspring/decimal"
)

var (
	ErrEmailDisabled = errors.New("email sending is disabled")
	ErrNoRecipient   = errors.New("email recipient is required")
)

// emailSender is the part of the Resend client the notifier uses.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

var recurringSummaryTemplate = template.Must(template.New("recurring_summary").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>Hi {{.Name}},</h2>
  <p>We booked {{len .Lines}} recurring transaction{{if ne (len .Lines) 1}}s{{end}} for you.</p>
  <table cellpadding="6" style="border-collapse: collapse; width: 100%;">
    <tr style="background: #f3f4f6;"><th align="left">Description</th><th align="left">Category</th><th align="right">Amount</th></tr>
    {{range .Lines}}<tr><td>{{.Description}}</td><td>{{.Category}}</td><td align="right">{{.Amount}}</td></tr>
    {{end}}
  </table>
  <p>Net change: <strong>{{.Net}}</strong></p>
  <p style="color: #6b7280; font-size: 12px;">Finance Tracker</p>
</body>
</html>`))

type summaryLine struct {
	Description string
	Category    string
	Amount      string
}

type NotificationService struct {
	sender      emailSender
	from        string
	auditLogger AuditLoggerInterface
	metrics     MetricsRecorderInterface
	logger      *slog.Logger
}

// NewNotificationService builds a Resend backed notifier. Without an API key
// every send returns ErrEmailDisabled.
func NewNotificationService(cfg config.EmailConfig, auditLogger AuditLoggerInterface, metrics MetricsRecorderInterface, logger *slog.Logger) NotificationServiceInterface {
	var sender emailSender
	if cfg.APIKey != "" {
		sender = resend.NewClient(cfg.APIKey).Emails
	}
	return newNotificationService(sender, cfg.From, auditLogger, metrics, logger)
}

func newNotificationService(sender emailSender, from string, auditLogger AuditLoggerInterface, metrics MetricsRecorderInterface, logger *slog.Logger) *NotificationService {
	if from == "" {
		from = config.DefaultEmailFrom
	}
	return &NotificationService{
		sender:      sender,
		from:        from,
		auditLogger: auditLogger,
		metrics:     metrics,
		logger:      logger,
	}
}

func (s *NotificationService) SendEmail(ctx context.Context, to, subject, html string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return ErrNoRecipient
	}
	if s.sender == nil {
		s.logger.DebugContext(ctx, "email not sent, no API key configured", slog.String("subject", subject))
		return ErrEmailDisabled
	}

	resp, err := s.sender.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		s.metrics.IncrementCounter(MetricEmailFailed, nil)
		s.auditLogger.LogEmailFailed(ctx, to, subject, err.Error())
		return fmt.Errorf("failed to send email: %w", err)
	}

	messageID := ""
	if resp != nil {
		messageID = resp.Id
	}
	s.metrics.IncrementCounter(MetricEmailSent, nil)
	s.auditLogger.LogEmailSent(ctx, to, subject, messageID)
	return nil
}

// SendRecurringSummary emails the user the occurrences booked for them in
// one recurring run.
func (s *NotificationService) SendRecurringSummary(ctx context.Context, user *models.User, occurrences []models.Transaction) error {
	if user == nil || user.Email == "" {
		return ErrNoRecipient
	}
	if len(occurrences) == 0 {
		return nil
	}

	html, err := renderRecurringSummary(user, occurrences)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("%d recurring transaction", len(occurrences))
	if len(occurrences) != 1 {
		subject += "s"
	}
	subject += " processed"

	return s.SendEmail(ctx, user.Email, subject, html)
}

func renderRecurringSummary(user *models.User, occurrences []models.Transaction) (string, error) {
	net := decimal.Zero
	lines := make([]summaryLine, len(occurrences))
	for i := range occurrences {
		t := &occurrences[i]
		net = net.Add(t.SignedAmount())
		amount := t.Amount.StringFixed(2)
		if t.Type != models.TransactionTypeIncome {
			amount = "-" + amount
		}
		lines[i] = summaryLine{
			Description: t.Description,
			Category:    t.Category,
			Amount:      amount,
		}
	}

	name := user.DisplayName()
	if name == "" {
		name = "there"
	}

	var buf bytes.Buffer
	err := recurringSummaryTemplate.Execute(&buf, struct {
		Name  string
		Lines []summaryLine
		Net   string
	}{
		Name:  name,
		Lines: lines,
		Net:   net.StringFixed(2),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render recurring summary: %w", err)
	}
	return buf.String(), nil
}
