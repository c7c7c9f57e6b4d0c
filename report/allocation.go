package report

import (
	"time"

	"github.com/pvminh/tally/expense"
	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// AllocatedAmount returns how much of the expense's amount falls within
// [rangeStart, rangeEnd], inclusive on both ends.
//
// An expense without an allocation period is recognized all-or-nothing on its
// spend date. An allocated expense contributes a pro-rata daily share of its
// amount for the days its allocation span overlaps the range.
func AllocatedAmount(e expense.Expense, rangeStart, rangeEnd time.Time) decimal.Decimal {
	checkRange(rangeStart, rangeEnd)
	rangeStart, rangeEnd = Day(rangeStart), Day(rangeEnd)

	if !e.Allocated() {
		if dateInRange(e.Date, rangeStart, rangeEnd) {
			return e.Amount
		}
		return decimal.Zero
	}

	allocStart, allocEnd := e.AllocationSpan()
	allocStart, allocEnd = Day(allocStart), Day(allocEnd)

	totalDays := daysInclusive(allocStart, allocEnd)
	if totalDays <= 0 {
		// malformed span, recognize nothing rather than divide by zero
		return decimal.Zero
	}

	overlapStart := maxDay(allocStart, rangeStart)
	overlapEnd := minDay(allocEnd, rangeEnd)
	if overlapStart.After(overlapEnd) {
		return decimal.Zero
	}
	overlapDays := daysInclusive(overlapStart, overlapEnd)

	allocated := e.Amount.
		Mul(decimal.New(int64(overlapDays), 0)).
		Div(decimal.New(int64(totalDays), 0))
	// day counts can never make the share exceed the full amount, but clamp anyway
	// so rounding at the span edges can't overcredit a bucket
	if allocated.GreaterThan(e.Amount) {
		return e.Amount
	}
	return allocated
}

func dateInRange(date, start, end time.Time) bool {
	date = Day(date)
	return !date.Before(start) && !date.After(end)
}

// daysInclusive counts calendar days from start through end, both included
func daysInclusive(start, end time.Time) int {
	return int(end.Sub(start)/day) + 1
}

func minDay(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxDay(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
