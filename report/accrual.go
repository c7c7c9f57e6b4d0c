package report

import (
	"time"

	"github.com/pvminh/tally/expense"
	"github.com/shopspring/decimal"
)

// BucketFunc decides which day and month buckets receive an allocated
// expense's pro-rated share
type BucketFunc func(agg *Aggregate, e expense.Expense, overlapStart, overlapEnd time.Time, allocated decimal.Decimal)

// BucketByOriginDate lumps the whole pro-rated share into the expense's own
// spend date buckets, even when the allocation span covers several months.
// This matches the dashboard's historical behavior: an expense allocated
// across 3 months shows up entirely under its origin month.
func BucketByOriginDate(agg *Aggregate, e expense.Expense, overlapStart, overlapEnd time.Time, allocated decimal.Decimal) {
	agg.add(Day(e.Date), e.Category, allocated)
}

// BucketBySpreadMonths splits the pro-rated share across every calendar month
// the overlap window covers, proportional to the days in each
func BucketBySpreadMonths(agg *Aggregate, e expense.Expense, overlapStart, overlapEnd time.Time, allocated decimal.Decimal) {
	overlapDays := daysInclusive(overlapStart, overlapEnd)
	if overlapDays <= 0 {
		return
	}
	remaining := allocated
	for monthStart := overlapStart; !monthStart.After(overlapEnd); monthStart = nextMonth(monthStart) {
		monthEnd := minDay(endOfMonth(monthStart), overlapEnd)
		monthDays := daysInclusive(monthStart, monthEnd)

		share := allocated.
			Mul(decimal.New(int64(monthDays), 0)).
			Div(decimal.New(int64(overlapDays), 0))
		if share.GreaterThan(remaining) || monthEnd.Equal(overlapEnd) {
			// give the last month the exact remainder so bucket sums match the total
			share = remaining
		}
		agg.add(monthStart, e.Category, share)
		remaining = remaining.Sub(share)
	}
}

func endOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

func nextMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
}

// AllocatedExpense annotates an allocation-period expense with its pro-rated
// contribution to an accrual view
type AllocatedExpense struct {
	ID              string
	Description     string
	OriginalDate    time.Time
	Amount          decimal.Decimal
	AllocatedAmount decimal.Decimal
	Period          expense.Period
}

type accrualConfig struct {
	bucket BucketFunc
}

// AccrualOption customizes an accrual view
type AccrualOption func(*accrualConfig)

// WithBucketing overrides how allocated shares are bucketed.
// The default is BucketByOriginDate
func WithBucketing(bucket BucketFunc) AccrualOption {
	return func(conf *accrualConfig) {
		conf.bucket = bucket
	}
}

// AccrualView sums expenses recognized per the period their cost economically
// applies: allocated expenses contribute the share of their amount whose
// allocation span overlaps [rangeStart, rangeEnd], everything else follows the
// same all-or-nothing rule as CashFlowView.
// The second return value lists the allocated expenses with non-zero shares
func AccrualView(expenses []expense.Expense, rangeStart, rangeEnd time.Time, opts ...AccrualOption) (*Aggregate, []AllocatedExpense) {
	checkRange(rangeStart, rangeEnd)
	rangeStart, rangeEnd = Day(rangeStart), Day(rangeEnd)

	conf := accrualConfig{bucket: BucketByOriginDate}
	for _, opt := range opts {
		opt(&conf)
	}

	agg := newAggregate()
	var allocatedExpenses []AllocatedExpense
	for _, e := range expenses {
		if !e.Allocated() {
			if dateInRange(e.Date, rangeStart, rangeEnd) {
				agg.add(Day(e.Date), e.Category, e.Amount)
			}
			continue
		}

		allocated := AllocatedAmount(e, rangeStart, rangeEnd)
		if allocated.IsZero() {
			continue
		}
		allocStart, allocEnd := e.AllocationSpan()
		overlapStart := maxDay(Day(allocStart), rangeStart)
		overlapEnd := minDay(Day(allocEnd), rangeEnd)
		conf.bucket(agg, e, overlapStart, overlapEnd, allocated)
		allocatedExpenses = append(allocatedExpenses, AllocatedExpense{
			ID:              e.ID,
			Description:     e.Description,
			OriginalDate:    e.Date,
			Amount:          e.Amount,
			AllocatedAmount: allocated,
			Period:          e.AllocationPeriod,
		})
	}
	return agg, allocatedExpenses
}
