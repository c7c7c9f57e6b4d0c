package report

import (
	"time"

	"github.com/pvminh/tally/expense"
	"github.com/shopspring/decimal"
)

const (
	// MonthKeyFormat keys ByMonth buckets
	MonthKeyFormat = "2006-01"
	// FallbackCategory buckets expenses without a category
	FallbackCategory = "Khác"
)

// Aggregate sums expense amounts within a reporting window, bucketed three ways.
// Each bucket map's values sum to Total.
type Aggregate struct {
	Total      decimal.Decimal
	ByDay      map[string]decimal.Decimal
	ByMonth    map[string]decimal.Decimal
	ByCategory map[string]decimal.Decimal
}

func newAggregate() *Aggregate {
	return &Aggregate{
		ByDay:      make(map[string]decimal.Decimal),
		ByMonth:    make(map[string]decimal.Decimal),
		ByCategory: make(map[string]decimal.Decimal),
	}
}

// add credits 'amount' to the total and to the day, month and category buckets for 'date'
func (a *Aggregate) add(date time.Time, category string, amount decimal.Decimal) {
	a.Total = a.Total.Add(amount)
	dayKey := date.Format(expense.DateFormat)
	a.ByDay[dayKey] = a.ByDay[dayKey].Add(amount)
	monthKey := date.Format(MonthKeyFormat)
	a.ByMonth[monthKey] = a.ByMonth[monthKey].Add(amount)
	category = categoryOrFallback(category)
	a.ByCategory[category] = a.ByCategory[category].Add(amount)
}

func categoryOrFallback(category string) string {
	if category == "" {
		return FallbackCategory
	}
	return category
}

// checkRange panics when the caller passes an inverted reporting window.
// Malformed expense data degrades to zero, but a bad range is a caller bug
func checkRange(rangeStart, rangeEnd time.Time) {
	if rangeEnd.Before(rangeStart) {
		panic("Report range end must not precede range start")
	}
}

// Day normalizes a timestamp to its calendar day at UTC midnight.
// All report arithmetic is timezone-naive
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
