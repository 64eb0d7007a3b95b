package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"

	"github.com/google/uuid"
	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

const (
	statementDateLayout = "2006-01-02"
	statementMaxRows    = 500
)

var (
	ErrInvalidDateRange = errors.New("statement start date must not be after end date")
	ErrFuturePeriod     = errors.New("cannot generate statement for future period")
)

type statementService struct {
	accountRepo     repositories.AccountRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
	now             func() time.Time
}

func NewStatementService(
	accountRepo repositories.AccountRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) StatementServiceInterface {
	return &statementService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		metrics:         metrics,
		logger:          logger,
		now:             time.Now,
	}
}

// GenerateStatement builds an account statement covering the calendar days
// from through to. Balances are derived backwards from the current account
// balance, so the closing balance excludes anything dated after the window.
func (s *statementService) GenerateStatement(ctx context.Context, userID, accountID uuid.UUID, from, to time.Time) (*models.AccountStatement, error) {
	start := startOfDay(from)
	end := endOfDay(to)
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}
	if start.After(s.now()) {
		return nil, ErrFuturePeriod
	}

	account, err := s.accountRepo.GetByIDForUser(userID, accountID)
	if err != nil {
		return nil, mapAccountError(err)
	}

	transactions, err := s.transactionRepo.ListByAccount(userID, accountID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch transactions for statement",
			"account_id", accountID,
			"error", err)
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	window := make([]models.Transaction, 0, len(transactions))
	after := decimal.Zero
	for i := range transactions {
		t := &transactions[i]
		switch {
		case t.Date.After(end):
			after = after.Add(t.SignedAmount())
		case !t.Date.Before(start):
			window = append(window, *t)
		}
	}
	sort.SliceStable(window, func(i, j int) bool {
		return window[i].Date.Before(window[j].Date)
	})

	closingBalance := account.Balance.Sub(after)
	summary := calculateStatementSummary(window)
	openingBalance := closingBalance.Sub(summary.NetChange)

	statement := &models.AccountStatement{
		AccountID:      account.ID,
		AccountName:    account.Name,
		AccountType:    account.Type,
		StartDate:      start,
		EndDate:        end,
		OpeningBalance: openingBalance,
		ClosingBalance: closingBalance,
		Transactions:   buildStatementTransactions(window, openingBalance),
		Categories:     summarizeCategories(window),
		Summary:        summary,
		GeneratedAt:    s.now(),
	}

	s.logger.InfoContext(ctx, "statement generated",
		"account_id", accountID,
		"user_id", userID,
		"from", start.Format(statementDateLayout),
		"to", end.Format(statementDateLayout),
		"transaction_count", len(window))

	return statement, nil
}

func buildStatementTransactions(window []models.Transaction, opening decimal.Decimal) []models.StatementTransaction {
	lines := make([]models.StatementTransaction, 0, len(window))
	running := opening
	for i := range window {
		t := &window[i]
		running = running.Add(t.SignedAmount())
		lines = append(lines, models.StatementTransaction{
			ID:             t.ID,
			Date:           t.Date,
			Description:    t.Description,
			Category:       t.Category,
			Type:           t.Type,
			Amount:         t.Amount,
			RunningBalance: running,
			IsRecurring:    t.IsRecurring,
		})
	}
	return lines
}

func calculateStatementSummary(window []models.Transaction) models.StatementSummary {
	summary := models.StatementSummary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		NetChange:    decimal.Zero,
	}

	for i := range window {
		t := &window[i]
		summary.TransactionCount++
		if t.Type == models.TransactionTypeIncome {
			summary.TotalIncome = summary.TotalIncome.Add(t.Amount)
			summary.IncomeCount++
		} else {
			summary.TotalExpense = summary.TotalExpense.Add(t.Amount)
			summary.ExpenseCount++
		}
	}

	summary.NetChange = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary
}

// summarizeCategories orders categories by total, largest first
func summarizeCategories(window []models.Transaction) []models.CategorySummary {
	index := make(map[string]int)
	out := []models.CategorySummary{}
	for i := range window {
		t := &window[i]
		key := t.Type + "/" + t.Category
		pos, ok := index[key]
		if !ok {
			pos = len(out)
			index[key] = pos
			out = append(out, models.CategorySummary{
				Category:    t.Category,
				Type:        t.Type,
				TotalAmount: decimal.Zero,
			})
		}
		out[pos].TransactionCount++
		out[pos].TotalAmount = out[pos].TotalAmount.Add(t.Amount)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalAmount.GreaterThan(out[j].TotalAmount)
	})
	return out
}

// RenderPDF lays the statement out on A4 pages
func (s *statementService) RenderPDF(statement *models.AccountStatement) ([]byte, error) {
	startTime := time.Now()

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Account Statement")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, tr(fmt.Sprintf("%s (%s)", statement.AccountName, titleCase(statement.AccountType))))
	pdf.Ln(5)
	pdf.Cell(0, 6, "Period: "+statement.StartDate.Format(statementDateLayout)+" to "+statement.EndDate.Format(statementDateLayout))
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 10)

	sumW := []float64{36.4, 36.4, 36.4, 36.4, 36.4}
	headers := []string{"Opening", "Income", "Expense", "Net", "Closing"}
	for i, h := range headers {
		pdf.CellFormat(sumW[i], 9, h, "1", boolToLn(i == len(headers)-1), "C", true, 0, "")
	}
	pdf.SetFont("Helvetica", "", 10)
	values := []decimal.Decimal{
		statement.OpeningBalance,
		statement.Summary.TotalIncome,
		statement.Summary.TotalExpense,
		statement.Summary.NetChange,
		statement.ClosingBalance,
	}
	for i, v := range values {
		pdf.CellFormat(sumW[i], 9, v.StringFixed(2), "1", boolToLn(i == len(values)-1), "C", false, 0, "")
	}
	pdf.Ln(6)

	colW := []float64{24, 70, 36, 26, 26}
	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(245, 245, 245)
		pdf.CellFormat(colW[0], 8, "DATE", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[1], 8, "DESCRIPTION", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colW[2], 8, "CATEGORY", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colW[3], 8, "AMOUNT", "1", 0, "R", true, 0, "")
		pdf.CellFormat(colW[4], 8, "BALANCE", "1", 1, "R", true, 0, "")
		pdf.SetFont("Helvetica", "", 9)
	}
	writeHeader()

	if len(statement.Transactions) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 8, "No transactions in this period", "1", 1, "C", false, 0, "")
	}

	for i, line := range statement.Transactions {
		if i >= statementMaxRows {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 8, fmt.Sprintf("%d more transactions not shown", len(statement.Transactions)-i), "1", 1, "C", false, 0, "")
			break
		}
		if pdf.GetY() > 270 {
			pdf.AddPage()
			writeHeader()
		}

		amount := line.Amount.StringFixed(2)
		if line.Type != models.TransactionTypeIncome {
			amount = "-" + amount
		}
		description := line.Description
		if description == "" {
			description = "-"
		}

		pdf.CellFormat(colW[0], 7, line.Date.Format(statementDateLayout), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[1], 7, tr(trimTo(description, 42)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[2], 7, tr(trimTo(line.Category, 20)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[3], 7, amount, "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[4], 7, line.RunningBalance.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Generated by Finance Tracker - "+statement.GeneratedAt.Format(time.RFC3339), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render statement pdf: %w", err)
	}

	s.metrics.IncrementCounter(MetricStatementRendered, nil)
	s.metrics.RecordProcessingTime(MetricStatementRender, time.Since(startTime))

	return buf.Bytes(), nil
}

func boolToLn(last bool) int {
	if last {
		return 1
	}
	return 0
}

func trimTo(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
