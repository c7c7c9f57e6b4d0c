package report

import (
	"github.com/shopspring/decimal"
)

// LargeDivergenceThreshold marks cash-flow vs accrual gaps worth calling out
var LargeDivergenceThreshold = decimal.New(1000000, 0)

// Insight labels match the dashboard's original wording
const (
	InsightLargeDivergence = "Chênh lệch lớn"
	InsightLargePayments   = "Có khoản chi lớn trong kỳ"
)

var hundred = decimal.New(100, 0)

// MonthlyDifference is one month's cash-flow amount, accrual amount and their gap
type MonthlyDifference struct {
	CashFlow   decimal.Decimal
	Accrual    decimal.Decimal
	Difference decimal.Decimal
}

// Comparison quantifies the divergence between a cash-flow and an accrual view
// of the same window
type Comparison struct {
	CashFlowTotal      decimal.Decimal
	AccrualTotal       decimal.Decimal
	TotalDifference    decimal.Decimal
	PercentDifference  decimal.Decimal
	MonthlyDifferences map[string]MonthlyDifference
	Insights           []string
}

// CompareViews computes the absolute and percentage gap between the two views,
// per month and overall. 'largePayments' is the cash-flow view's side list and
// only feeds insight classification.
// Always returns a result: a zero cash-flow total yields a zero percentage
func CompareViews(cashFlow, accrual *Aggregate, largePayments []LargePayment) Comparison {
	if cashFlow == nil || accrual == nil {
		panic("CompareViews requires both aggregate views")
	}

	totalDifference := cashFlow.Total.Sub(accrual.Total)
	percentDifference := decimal.Zero
	if cashFlow.Total.Sign() > 0 {
		percentDifference = totalDifference.Div(cashFlow.Total).Mul(hundred)
	}

	monthly := make(map[string]MonthlyDifference)
	for month, amount := range cashFlow.ByMonth {
		diff := monthly[month]
		diff.CashFlow = amount
		monthly[month] = diff
	}
	for month, amount := range accrual.ByMonth {
		diff := monthly[month]
		diff.Accrual = amount
		monthly[month] = diff
	}
	for month, diff := range monthly {
		diff.Difference = diff.CashFlow.Sub(diff.Accrual)
		monthly[month] = diff
	}

	var insights []string
	if totalDifference.Abs().GreaterThan(LargeDivergenceThreshold) {
		insights = append(insights, InsightLargeDivergence)
	}
	if len(largePayments) > 0 {
		insights = append(insights, InsightLargePayments)
	}

	return Comparison{
		CashFlowTotal:      cashFlow.Total,
		AccrualTotal:       accrual.Total,
		TotalDifference:    totalDifference,
		PercentDifference:  percentDifference,
		MonthlyDifferences: monthly,
		Insights:           insights,
	}
}
