package core

import "github.com/shopspring/decimal"

// CategoryTotal represents an amount aggregated by category name.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// DailySummary holds the income and expense flow of a single date.
type DailySummary struct {
	Date       string          `json:"date"`
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	Difference decimal.Decimal `json:"difference"`
}

// Positive reports whether the day closed without a deficit.
func (s DailySummary) Positive() bool {
	return !s.Difference.IsNegative()
}

// MonthlyReport shows a month's flow next to the current total account position.
type MonthlyReport struct {
	Month             string          `json:"month"` // YYYY-MM
	Income            decimal.Decimal `json:"income"`
	Expense           decimal.Decimal `json:"expense"`
	NetAccountBalance decimal.Decimal `json:"netAccountBalance"`
}

// Positive reports whether the summed account balances are non-negative.
func (r MonthlyReport) Positive() bool {
	return !r.NetAccountBalance.IsNegative()
}

// ChartSeries is a chart-ready category breakdown.
type ChartSeries struct {
	Title  string            `json:"title"`
	Type   TransactionType   `json:"type"`
	Month  string            `json:"month"`
	Labels []string          `json:"labels"`
	Values []decimal.Decimal `json:"values"`
}
