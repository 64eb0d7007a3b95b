package models

import (
	"errors"
	"fmt"
	"strings"
)

const (
	TransactionPageSize = 10

	// pagination collapses to first/last/current +/- 2 above this many pages
	maxPlainPageLinks = 7

	SortFieldDate     = "date"
	SortFieldAmount   = "amount"
	SortFieldCategory = "category"

	SortAsc  = "asc"
	SortDesc = "desc"

	RecurringFilterRecurring    = "recurring"
	RecurringFilterNonRecurring = "non-recurring"

	// PageEllipsis marks a gap in TransactionPage.PageRange.
	PageEllipsis = 0
)

var ErrInvalidQuery = errors.New("invalid transaction query")

type TransactionSort struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

func DefaultTransactionSort() TransactionSort {
	return TransactionSort{Field: SortFieldDate, Direction: SortDesc}
}

// Toggle returns the sort after a user selects field: re-selecting the
// current ascending field flips it to descending, anything else starts
// ascending.
func (s TransactionSort) Toggle(field string) TransactionSort {
	direction := SortAsc
	if s.Field == field && s.Direction == SortAsc {
		direction = SortDesc
	}
	return TransactionSort{Field: field, Direction: direction}
}

// TransactionQuery is the filter/sort/page state of a transaction table.
// The zero value (after Normalize) shows everything, newest first, page 1.
type TransactionQuery struct {
	Search    string          `json:"search,omitempty"`
	Type      string          `json:"type,omitempty"`
	Recurring string          `json:"recurring,omitempty"`
	Sort      TransactionSort `json:"sort"`
	Page      int             `json:"page"`
}

func (q *TransactionQuery) Normalize() error {
	q.Search = strings.TrimSpace(q.Search)
	q.Type = strings.ToUpper(strings.TrimSpace(q.Type))
	q.Recurring = strings.ToLower(strings.TrimSpace(q.Recurring))

	if q.Type != "" && !IsValidTransactionType(q.Type) {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidQuery, q.Type)
	}

	switch q.Recurring {
	case "", RecurringFilterRecurring, RecurringFilterNonRecurring:
	default:
		return fmt.Errorf("%w: unknown recurring filter %q", ErrInvalidQuery, q.Recurring)
	}

	if q.Sort.Field == "" {
		q.Sort = DefaultTransactionSort()
	}
	switch q.Sort.Field {
	case SortFieldDate, SortFieldAmount, SortFieldCategory:
	default:
		return fmt.Errorf("%w: unknown sort field %q", ErrInvalidQuery, q.Sort.Field)
	}

	if q.Sort.Direction == "" {
		q.Sort.Direction = SortAsc
	}
	if q.Sort.Direction != SortAsc && q.Sort.Direction != SortDesc {
		return fmt.Errorf("%w: unknown sort direction %q", ErrInvalidQuery, q.Sort.Direction)
	}

	if q.Page < 1 {
		q.Page = 1
	}
	return nil
}

// IsFiltered reports whether any filter is active.
func (q *TransactionQuery) IsFiltered() bool {
	return q.Search != "" || q.Type != "" || q.Recurring != ""
}

type TransactionPage struct {
	Transactions []Transaction   `json:"transactions"`
	Page         int             `json:"page"`
	PageSize     int             `json:"page_size"`
	TotalPages   int             `json:"total_pages"`
	TotalItems   int             `json:"total_items"`
	PageRange    []int           `json:"page_range"`
	Sort         TransactionSort `json:"sort"`
}

// PageRange lists the page links to render for current out of total pages.
// Up to seven pages are listed in full; beyond that the first and last page
// and current +/- 2 are kept and gaps are marked with PageEllipsis.
func PageRange(current, total int) []int {
	if total <= maxPlainPageLinks {
		out := make([]int, 0, total)
		for i := 1; i <= total; i++ {
			out = append(out, i)
		}
		return out
	}

	start := max(2, current-2)
	end := min(total-1, current+2)

	out := []int{1}
	if start > 2 {
		out = append(out, PageEllipsis)
	}
	for i := start; i <= end; i++ {
		out = append(out, i)
	}
	if end < total-1 {
		out = append(out, PageEllipsis)
	}
	return append(out, total)
}
