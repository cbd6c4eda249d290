// Package report derives summaries from ledger snapshots. Every function is
// pure: inputs are never modified and no clock is read, so callers pass the
// selected date or month explicitly.
package report

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

// Daily totals the income and expense recorded on date (YYYY-MM-DD).
func Daily(txs []core.Transaction, date string) core.DailySummary {
	s := core.DailySummary{Date: date, Income: decimal.Zero, Expense: decimal.Zero, Difference: decimal.Zero}
	for _, tx := range txs {
		if tx.Date != date {
			continue
		}
		switch tx.Type {
		case core.Income:
			s.Income = s.Income.Add(tx.Amount)
		case core.Expense:
			s.Expense = s.Expense.Add(tx.Amount)
		}
		s.Difference = s.Difference.Add(tx.Signed())
	}
	return s
}

// Monthly totals the month's flow. NetAccountBalance sums every account's
// stored balance and is not restricted to the month.
func Monthly(txs []core.Transaction, accounts []core.Account, month string) core.MonthlyReport {
	r := core.MonthlyReport{Month: month, Income: decimal.Zero, Expense: decimal.Zero, NetAccountBalance: decimal.Zero}
	for _, tx := range txs {
		if tx.Month() != month {
			continue
		}
		switch tx.Type {
		case core.Income:
			r.Income = r.Income.Add(tx.Amount)
		case core.Expense:
			r.Expense = r.Expense.Add(tx.Amount)
		}
	}
	balances := make([]decimal.Decimal, 0, len(accounts))
	for _, a := range accounts {
		balances = append(balances, a.Balance)
	}
	r.NetAccountBalance = core.Sum(balances...)
	return r
}

// CategoryBreakdown sums amounts per category for one month and direction.
// Categories with no matching transactions are absent.
func CategoryBreakdown(txs []core.Transaction, month string, typ core.TransactionType) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if tx.Type != typ || tx.Month() != month {
			continue
		}
		if cur, ok := out[tx.Category]; ok {
			out[tx.Category] = cur.Add(tx.Amount)
		} else {
			out[tx.Category] = tx.Amount
		}
	}
	return out
}

// Breakdown is CategoryBreakdown as an ordered list. Categories appear in the
// order they are first met in txs.
func Breakdown(txs []core.Transaction, month string, typ core.TransactionType) []core.CategoryTotal {
	var out []core.CategoryTotal
	index := make(map[string]int)
	for _, tx := range txs {
		if tx.Type != typ || tx.Month() != month {
			continue
		}
		if i, ok := index[tx.Category]; ok {
			out[i].Amount = out[i].Amount.Add(tx.Amount)
			continue
		}
		index[tx.Category] = len(out)
		out = append(out, core.CategoryTotal{Category: tx.Category, Amount: tx.Amount})
	}
	return out
}

// SortByAmount returns a copy ordered by descending amount, then by name.
func SortByAmount(totals []core.CategoryTotal) []core.CategoryTotal {
	out := slices.Clone(totals)
	slices.SortStableFunc(out, func(a, b core.CategoryTotal) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return strings.Compare(a.Category, b.Category)
	})
	return out
}

// DailyTransactions lists the transactions of date, newest first.
func DailyTransactions(txs []core.Transaction, date string) []core.Transaction {
	out := make([]core.Transaction, 0)
	for _, tx := range txs {
		if tx.Date == date {
			out = append(out, tx)
		}
	}
	slices.SortStableFunc(out, func(a, b core.Transaction) int {
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
	return out
}

// MonthOf returns the YYYY-MM month of a YYYY-MM-DD date.
func MonthOf(date string) string {
	return core.MonthKey(date)
}

// Series turns a breakdown into chart labels and values.
func Series(title string, month string, typ core.TransactionType, totals []core.CategoryTotal) core.ChartSeries {
	s := core.ChartSeries{
		Title:  title,
		Type:   typ,
		Month:  month,
		Labels: make([]string, 0, len(totals)),
		Values: make([]decimal.Decimal, 0, len(totals)),
	}
	for _, t := range totals {
		s.Labels = append(s.Labels, t.Category)
		s.Values = append(s.Values, t.Amount)
	}
	return s
}
