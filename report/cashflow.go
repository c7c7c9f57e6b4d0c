package report

import (
	"time"

	"github.com/pvminh/tally/expense"
	"github.com/shopspring/decimal"
)

// LargePaymentThreshold marks single payments worth calling out in reports
var LargePaymentThreshold = decimal.New(10000000, 0)

// LargePayment is a cash-flow expense above LargePaymentThreshold.
// Allocated is informational: it reports whether the expense declared an
// allocation period, the amount is never recomputed
type LargePayment struct {
	Expense   expense.Expense
	Allocated bool
}

// CashFlowView sums expenses recognized entirely on the date money left the
// account. Expenses dated outside [rangeStart, rangeEnd] contribute nothing.
// The second return value lists payments above LargePaymentThreshold
func CashFlowView(expenses []expense.Expense, rangeStart, rangeEnd time.Time) (*Aggregate, []LargePayment) {
	checkRange(rangeStart, rangeEnd)
	rangeStart, rangeEnd = Day(rangeStart), Day(rangeEnd)

	agg := newAggregate()
	var largePayments []LargePayment
	for _, e := range expenses {
		if !dateInRange(e.Date, rangeStart, rangeEnd) {
			continue
		}
		agg.add(Day(e.Date), e.Category, e.Amount)
		if e.Amount.GreaterThan(LargePaymentThreshold) {
			largePayments = append(largePayments, LargePayment{
				Expense:   e,
				Allocated: e.Allocated(),
			})
		}
	}
	return agg, largePayments
}
