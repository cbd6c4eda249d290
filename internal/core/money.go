// Package core provides money parsing and handling utilities.
//
// This file contains the functions that turn user supplied strings into
// decimal amounts for transactions and account balances.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to a positive transaction amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. A
// leading plus sign is accepted; negatives, zero, and anything that is not a
// finite number are rejected.
//
// Examples:
//
//	ParseAmount("50000")   -> 50000, nil
//	ParseAmount("12,5")    -> 12.5, nil
//	ParseAmount("+500")    -> 500, nil
//	ParseAmount("-3")      -> error
//	ParseAmount("NaN")     -> error
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}
	if !d.IsPositive() {
		return decimal.Zero, &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}
	return d, nil
}

// ParseBalance converts an initial account balance. Unparsable input yields zero;
// negative balances are allowed.
func ParseBalance(s string) decimal.Decimal {
	d, err := parseDecimal(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	if !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	// A single explicit plus sign is allowed.
	if rest, ok := strings.CutPrefix(s, "+"); ok {
		if rest == "" || rest[0] == '+' || rest[0] == '-' {
			return decimal.Zero, ErrInvalidAmount
		}
		s = rest
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// Sum adds the given amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, amounts...)
}
