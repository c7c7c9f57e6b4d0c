package report

import (
	"testing"

	"github.com/pvminh/tally/expense"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aggregateWithMonths(months map[string]decimal.Decimal) *Aggregate {
	agg := newAggregate()
	for month, amount := range months {
		agg.ByMonth[month] = amount
		agg.Total = agg.Total.Add(amount)
	}
	return agg
}

func TestCompareViews(t *testing.T) {
	t.Run("total and percent difference", func(t *testing.T) {
		cashFlow := aggregateWithMonths(map[string]decimal.Decimal{"2024-01": dec(1000)})
		accrual := aggregateWithMonths(map[string]decimal.Decimal{"2024-01": dec(750)})
		cmp := CompareViews(cashFlow, accrual, nil)

		assert.True(t, dec(250).Equal(cmp.TotalDifference))
		assert.True(t, dec(25).Equal(cmp.PercentDifference))
	})

	t.Run("zero cash flow total guards percent division", func(t *testing.T) {
		cmp := CompareViews(newAggregate(), aggregateWithMonths(map[string]decimal.Decimal{"2024-01": dec(10)}), nil)
		assert.True(t, cmp.PercentDifference.IsZero())
		assert.True(t, dec(-10).Equal(cmp.TotalDifference))
	})

	t.Run("monthly differences union months from both views", func(t *testing.T) {
		cashFlow := aggregateWithMonths(map[string]decimal.Decimal{
			"2024-01": dec(100),
			"2024-02": dec(200),
		})
		accrual := aggregateWithMonths(map[string]decimal.Decimal{
			"2024-02": dec(150),
			"2024-03": dec(50),
		})
		cmp := CompareViews(cashFlow, accrual, nil)

		require.Len(t, cmp.MonthlyDifferences, 3)
		jan := cmp.MonthlyDifferences["2024-01"]
		assert.True(t, dec(100).Equal(jan.CashFlow))
		assert.True(t, jan.Accrual.IsZero())
		assert.True(t, dec(100).Equal(jan.Difference))

		feb := cmp.MonthlyDifferences["2024-02"]
		assert.True(t, dec(50).Equal(feb.Difference))

		mar := cmp.MonthlyDifferences["2024-03"]
		assert.True(t, mar.CashFlow.IsZero())
		assert.True(t, dec(-50).Equal(mar.Difference))
	})

	t.Run("symmetry", func(t *testing.T) {
		a := aggregateWithMonths(map[string]decimal.Decimal{"2024-01": dec(123)})
		b := aggregateWithMonths(map[string]decimal.Decimal{"2024-01": dec(456)})
		forward := CompareViews(a, b, nil)
		backward := CompareViews(b, a, nil)
		assert.True(t, forward.TotalDifference.Equal(backward.TotalDifference.Neg()))
	})

	t.Run("empty views compare to zero", func(t *testing.T) {
		cmp := CompareViews(newAggregate(), newAggregate(), nil)
		assert.True(t, cmp.TotalDifference.IsZero())
		assert.True(t, cmp.PercentDifference.IsZero())
		assert.Empty(t, cmp.MonthlyDifferences)
		assert.Empty(t, cmp.Insights)
	})

	t.Run("nil views panic", func(t *testing.T) {
		assert.Panics(t, func() {
			CompareViews(nil, newAggregate(), nil)
		})
	})
}

func TestCompareViewsInsights(t *testing.T) {
	t.Run("large divergence", func(t *testing.T) {
		cashFlow := aggregateWithMonths(map[string]decimal.Decimal{"2024-01": dec(2000000)})
		accrual := aggregateWithMonths(map[string]decimal.Decimal{"2024-01": dec(999999)})
		cmp := CompareViews(cashFlow, accrual, nil)
		assert.Contains(t, cmp.Insights, InsightLargeDivergence)
	})

	t.Run("divergence at threshold is not flagged", func(t *testing.T) {
		cashFlow := aggregateWithMonths(map[string]decimal.Decimal{"2024-01": dec(2000000)})
		accrual := aggregateWithMonths(map[string]decimal.Decimal{"2024-01": dec(1000000)})
		cmp := CompareViews(cashFlow, accrual, nil)
		assert.NotContains(t, cmp.Insights, InsightLargeDivergence)
	})

	t.Run("large payments present", func(t *testing.T) {
		agg := aggregateWithMonths(map[string]decimal.Decimal{"2024-01": dec(15000000)})
		largePayments := []LargePayment{{Expense: expense.Expense{ID: "big"}}}
		cmp := CompareViews(agg, agg, largePayments)
		assert.Contains(t, cmp.Insights, InsightLargePayments)
	})
}
