package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ChartRange string

const (
	ChartRange7D  ChartRange = "7D"
	ChartRange1M  ChartRange = "1M"
	ChartRange3M  ChartRange = "3M"
	ChartRange6M  ChartRange = "6M"
	ChartRangeAll ChartRange = "ALL"

	DefaultChartRange = ChartRange1M

	ChartDayKeyLayout   = "2006-01-02"
	ChartDayLabelLayout = "Jan 02"
)

var chartRangeDays = map[ChartRange]int{
	ChartRange7D:  7,
	ChartRange1M:  30,
	ChartRange3M:  90,
	ChartRange6M:  180,
	ChartRangeAll: 0,
}

// ParseChartRange accepts the range labels case-insensitively; an empty
// value selects the default range.
func ParseChartRange(value string) (ChartRange, error) {
	if strings.TrimSpace(value) == "" {
		return DefaultChartRange, nil
	}
	r := ChartRange(strings.ToUpper(strings.TrimSpace(value)))
	if _, ok := chartRangeDays[r]; !ok {
		return "", fmt.Errorf("unknown chart range %q", value)
	}
	return r, nil
}

// Days is the trailing window length, 0 for unbounded.
func (r ChartRange) Days() int {
	return chartRangeDays[r]
}

type DailyTotal struct {
	Date    string          `json:"date"`
	Label   string          `json:"label"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

type ChartTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

type ChartData struct {
	Range  ChartRange   `json:"range"`
	Start  *time.Time   `json:"start,omitempty"`
	End    time.Time    `json:"end"`
	Days   []DailyTotal `json:"days"`
	Totals ChartTotals  `json:"totals"`
}
