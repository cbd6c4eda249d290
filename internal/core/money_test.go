package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"50000", "50000", true},
		{"1.23", "1.23", true},
		{"1,5", "1.5", true},
		{" 2.50 ", "2.5", true},
		{"-1", "", false},
		{"+500", "500", true},
		{"+", "", false},
		{"++1", "", false},
		{"+-1", "", false},
		{"0", "", false},
		{"abc", "", false},
		{"NaN", "", false},
		{"Infinity", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%q expected ErrInvalidAmount, got %v", tc.in, err)
		}
	}
}

func TestParseBalance(t *testing.T) {
	cases := map[string]string{
		"500000": "500000",
		"-250":   "-250",
		"+500":   "500",
		"+-5":    "0",
		"12,75":  "12.75",
		"":       "0",
		"lots":   "0",
	}
	for in, want := range cases {
		if got := ParseBalance(in); !got.Equal(decimal.RequireFromString(want)) {
			t.Fatalf("ParseBalance(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestSum(t *testing.T) {
	got := Sum(decimal.NewFromInt(1), decimal.RequireFromString("2.5"))
	if !got.Equal(decimal.RequireFromString("3.5")) {
		t.Fatalf("Sum = %s", got)
	}
	if !Sum().IsZero() {
		t.Fatal("empty sum should be zero")
	}
}
