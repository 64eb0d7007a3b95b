package services

import (
	"sort"
	"sync"
	"time"

	"finance-tracker/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
)

const incomeShare = 0.2

type amountRange struct {
	min, max float64
}

var categoryAmountRanges = map[string]amountRange{
	"salary":                    {2000, 6000},
	"freelance":                 {150, 1500},
	"investments":               {20, 800},
	"business":                  {300, 3000},
	"rental":                    {600, 2000},
	models.CategoryOtherIncome:  {10, 300},
	"housing":                   {800, 2500},
	"transportation":            {5, 120},
	"groceries":                 {15, 250},
	"utilities":                 {40, 300},
	"entertainment":             {8, 150},
	"food":                      {6, 90},
	"shopping":                  {10, 400},
	"healthcare":                {20, 600},
	"education":                 {15, 500},
	"personal":                  {10, 120},
	"travel":                    {60, 1800},
	"insurance":                 {50, 400},
	"gifts":                     {10, 250},
	"bills":                     {5, 200},
	models.CategoryOtherExpense: {5, 200},
}

type transactionGenerator struct {
	mu       sync.Mutex
	faker    *gofakeit.Faker
	income   []models.Category
	expenses []models.Category
}

// NewTransactionGenerator creates a new transaction generator
func NewTransactionGenerator() TransactionGeneratorInterface {
	return newTransactionGenerator(0)
}

// newTransactionGenerator seeds the faker; zero picks a random seed
func newTransactionGenerator(seed uint64) *transactionGenerator {
	return &transactionGenerator{
		faker:    gofakeit.New(seed),
		income:   models.CategoriesForType(models.TransactionTypeIncome),
		expenses: models.CategoriesForType(models.TransactionTypeExpense),
	}
}

// GenerateHistory returns count completed transactions spread across
// [start, end], oldest first. About a fifth of them are income.
func (g *transactionGenerator) GenerateHistory(start, end time.Time, count int) []models.Transaction {
	if count <= 0 {
		return []models.Transaction{}
	}

	out := make([]models.Transaction, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, g.generateOne(start, end))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func (g *transactionGenerator) generateOne(start, end time.Time) models.Transaction {
	g.mu.Lock()
	isIncome := g.faker.Float64() < incomeShare
	pool := g.expenses
	txType := models.TransactionTypeExpense
	if isIncome {
		pool = g.income
		txType = models.TransactionTypeIncome
	}
	category := pool[g.faker.IntRange(0, len(pool)-1)]
	merchant := g.faker.Company()
	g.mu.Unlock()

	return models.Transaction{
		Type:        txType,
		Amount:      decimal.RequireFromString(g.GenerateAmount(category.ID)),
		Description: merchant + " - " + category.Name,
		Date:        g.GenerateTimestamp(start, end),
		Category:    category.ID,
		Status:      models.TransactionStatusCompleted,
	}
}

// GenerateAmount picks a plausible positive amount for the category,
// formatted with two decimals.
func (g *transactionGenerator) GenerateAmount(category string) string {
	r, ok := categoryAmountRanges[category]
	if !ok {
		r = amountRange{min: 1, max: 100}
	}

	g.mu.Lock()
	value := g.faker.Float64Range(r.min, r.max)
	g.mu.Unlock()

	amount := decimal.NewFromFloat(value).Round(2)
	if !amount.IsPositive() {
		amount = decimal.NewFromFloat(r.min).Round(2)
	}
	return amount.StringFixed(2)
}

func (g *transactionGenerator) GenerateTimestamp(start, end time.Time) time.Time {
	if !end.After(start) {
		return start
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.faker.DateRange(start, end)
}
