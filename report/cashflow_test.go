package report

import (
	"testing"
	"time"

	"github.com/pvminh/tally/expense"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func january2024() (start, end time.Time) {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
}

func sumValues(buckets map[string]decimal.Decimal) decimal.Decimal {
	var sum decimal.Decimal
	for _, amount := range buckets {
		sum = sum.Add(amount)
	}
	return sum
}

func assertConservation(t *testing.T, agg *Aggregate) {
	t.Helper()
	assert.True(t, agg.Total.Equal(sumValues(agg.ByDay)), "ByDay sums to %s, want %s", sumValues(agg.ByDay), agg.Total)
	assert.True(t, agg.Total.Equal(sumValues(agg.ByMonth)), "ByMonth sums to %s, want %s", sumValues(agg.ByMonth), agg.Total)
	assert.True(t, agg.Total.Equal(sumValues(agg.ByCategory)), "ByCategory sums to %s, want %s", sumValues(agg.ByCategory), agg.Total)
}

func TestCashFlowView(t *testing.T) {
	start, end := january2024()

	t.Run("single expense in range", func(t *testing.T) {
		expenses := []expense.Expense{
			{Date: mustDate(t, "2024/01/15"), Amount: dec(1000000), AllocationPeriod: expense.PeriodNone},
		}
		agg, largePayments := CashFlowView(expenses, start, end)
		assert.True(t, dec(1000000).Equal(agg.Total))
		assert.Empty(t, largePayments)
		assertConservation(t, agg)
	})

	t.Run("expenses outside range contribute nothing", func(t *testing.T) {
		expenses := []expense.Expense{
			{Date: mustDate(t, "2023/12/31"), Amount: dec(100)},
			{Date: mustDate(t, "2024/02/01"), Amount: dec(200)},
		}
		agg, _ := CashFlowView(expenses, start, end)
		assert.True(t, agg.Total.IsZero())
		assert.Empty(t, agg.ByDay)
		assert.Empty(t, agg.ByMonth)
		assert.Empty(t, agg.ByCategory)
	})

	t.Run("allocated expense still recognized in full on its spend date", func(t *testing.T) {
		expenses := []expense.Expense{
			{
				Date:             mustDate(t, "2024/01/01"),
				Amount:           dec(1200000),
				AllocationPeriod: "12_months",
				AllocationStart:  mustDate(t, "2024/01/01"),
				AllocationEnd:    mustDate(t, "2024/12/31"),
			},
		}
		agg, _ := CashFlowView(expenses, start, end)
		assert.True(t, dec(1200000).Equal(agg.Total))
	})

	t.Run("category buckets", func(t *testing.T) {
		expenses := []expense.Expense{
			{Date: mustDate(t, "2024/01/10"), Amount: dec(500), Category: "Rent"},
			{Date: mustDate(t, "2024/01/20"), Amount: dec(300), Category: "Software"},
		}
		agg, _ := CashFlowView(expenses, start, end)
		assert.True(t, dec(800).Equal(agg.Total))
		require.Len(t, agg.ByCategory, 2)
		assert.True(t, dec(500).Equal(agg.ByCategory["Rent"]))
		assert.True(t, dec(300).Equal(agg.ByCategory["Software"]))
		assertConservation(t, agg)
	})

	t.Run("missing category falls back", func(t *testing.T) {
		expenses := []expense.Expense{
			{Date: mustDate(t, "2024/01/10"), Amount: dec(50)},
		}
		agg, _ := CashFlowView(expenses, start, end)
		assert.True(t, dec(50).Equal(agg.ByCategory[FallbackCategory]))
	})

	t.Run("empty input yields empty aggregate", func(t *testing.T) {
		agg, largePayments := CashFlowView(nil, start, end)
		assert.True(t, agg.Total.IsZero())
		assert.Empty(t, agg.ByDay)
		assert.Empty(t, largePayments)
	})

	t.Run("same day expenses accumulate", func(t *testing.T) {
		expenses := []expense.Expense{
			{Date: mustDate(t, "2024/01/10"), Amount: dec(1), Category: "Rent"},
			{Date: mustDate(t, "2024/01/10"), Amount: dec(2), Category: "Rent"},
		}
		agg, _ := CashFlowView(expenses, start, end)
		assert.True(t, dec(3).Equal(agg.ByDay["2024/01/10"]))
		assert.True(t, dec(3).Equal(agg.ByMonth["2024-01"]))
	})
}

func TestCashFlowViewLargePayments(t *testing.T) {
	start, end := january2024()
	expenses := []expense.Expense{
		{ID: "small", Date: mustDate(t, "2024/01/05"), Amount: dec(10000000)},
		{ID: "large", Date: mustDate(t, "2024/01/06"), Amount: dec(10000001)},
		{
			ID:               "large-allocated",
			Date:             mustDate(t, "2024/01/07"),
			Amount:           dec(24000000),
			AllocationPeriod: "12_months",
			AllocationStart:  mustDate(t, "2024/01/07"),
			AllocationEnd:    mustDate(t, "2025/01/06"),
		},
		{ID: "large-outside", Date: mustDate(t, "2024/02/07"), Amount: dec(99000000)},
	}
	agg, largePayments := CashFlowView(expenses, start, end)

	// threshold is exclusive
	require.Len(t, largePayments, 2)
	assert.Equal(t, "large", largePayments[0].Expense.ID)
	assert.False(t, largePayments[0].Allocated)
	assert.Equal(t, "large-allocated", largePayments[1].Expense.ID)
	assert.True(t, largePayments[1].Allocated)
	assertConservation(t, agg)
}

func TestCashFlowViewIdempotent(t *testing.T) {
	start, end := january2024()
	expenses := []expense.Expense{
		{Date: mustDate(t, "2024/01/10"), Amount: dec(123.45), Category: "Rent"},
		{Date: mustDate(t, "2024/01/11"), Amount: dec(67.89)},
	}
	first, _ := CashFlowView(expenses, start, end)
	second, _ := CashFlowView(expenses, start, end)
	assert.Equal(t, first, second)
}
