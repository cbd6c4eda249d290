package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestValidateDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-06-01", true},
		{"2024-12-31", true},
		{"2024-02-30", false},
		{"2024-6-1", false},
		{"2024-06-01T00:00:00Z", false},
		{"", false},
	}
	for i, tc := range cases {
		err := ValidateDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestValidateMonth(t *testing.T) {
	if err := ValidateMonth("2024-06"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	for _, bad := range []string{"2024-13", "2024-6", "202406", ""} {
		if err := ValidateMonth(bad); !errors.Is(err, ErrInvalidMonth) {
			t.Fatalf("%q: expected ErrInvalidMonth, got %v", bad, err)
		}
	}
}

func TestTransactionInputValidate(t *testing.T) {
	good := TransactionInput{
		Type:     Expense,
		Title:    "Lunch",
		Category: "Food",
		Amount:   decimal.NewFromInt(50000),
		Date:     "2024-06-01",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		in   TransactionInput
		want error
	}{
		{TransactionInput{Type: "transfer", Title: "a", Category: "c", Amount: decimal.NewFromInt(1)}, ErrInvalidType},
		{TransactionInput{Type: Income, Title: "  ", Category: "c", Amount: decimal.NewFromInt(1)}, ErrEmptyTitle},
		{TransactionInput{Type: Income, Title: "a", Category: "", Amount: decimal.NewFromInt(1)}, ErrEmptyCategory},
		{TransactionInput{Type: Income, Title: "a", Category: "c", Amount: decimal.Zero}, ErrInvalidAmount},
		{TransactionInput{Type: Income, Title: "a", Category: "c", Amount: decimal.NewFromInt(-5)}, ErrInvalidAmount},
	}
	for i, tc := range bads {
		err := tc.in.Validate()
		if !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
		if !IsValidation(err) {
			t.Fatalf("case %d expected a ValidationError, got %T", i, err)
		}
	}
}

func TestTransactionEditValidateDate(t *testing.T) {
	edit := TransactionEdit{Type: Income, Title: "a", Category: "c", Amount: decimal.NewFromInt(1), Date: "06/01/2024"}
	if err := edit.Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	edit.Date = ""
	if err := edit.Validate(); err != nil {
		t.Fatalf("empty date keeps the stored one, got %v", err)
	}
}

func TestParseTransactionType(t *testing.T) {
	got, err := ParseTransactionType(" Expense ")
	if err != nil || got != Expense {
		t.Fatalf("got %q, %v", got, err)
	}
	if _, err := ParseTransactionType("refund"); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestMonthKey(t *testing.T) {
	if got := MonthKey("2024-06-15"); got != "2024-06" {
		t.Fatalf("MonthKey = %q", got)
	}
	if got := MonthKey("2024"); got != "2024" {
		t.Fatalf("short input should be returned as is, got %q", got)
	}
}

func TestTransactionSigned(t *testing.T) {
	tx := Transaction{Type: Expense, Amount: decimal.NewFromInt(20)}
	if !tx.Signed().Equal(decimal.NewFromInt(-20)) {
		t.Fatalf("expense should be negative, got %s", tx.Signed())
	}
	tx.Type = Income
	if !tx.Signed().Equal(decimal.NewFromInt(20)) {
		t.Fatalf("income should be positive, got %s", tx.Signed())
	}
}

func TestTransactionJSONUsesNumbers(t *testing.T) {
	tx := Transaction{ID: 1, Type: Income, Title: "Salary", Category: "Salary", Amount: decimal.NewFromInt(3000000), Date: "2024-06-01"}
	b, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":1,"type":"income","title":"Salary","category":"Salary","amount":3000000,"date":"2024-06-01"}`
	if string(b) != want {
		t.Fatalf("got %s\nwant %s", b, want)
	}
}

func TestIDGeneratorMonotonic(t *testing.T) {
	fixed := time.UnixMilli(1_717_200_000_000)
	g := NewIDGenerator(func() time.Time { return fixed })

	first := g.Next()
	second := g.Next()
	if first != fixed.UnixMilli() {
		t.Fatalf("first id should be the timestamp, got %d", first)
	}
	if second != first+1 {
		t.Fatalf("ids must increase when the clock stalls: %d then %d", first, second)
	}

	g.Observe(first + 100)
	if next := g.Next(); next != first+101 {
		t.Fatalf("observed ids must not be reused, got %d", next)
	}
}

func TestSummaryClassification(t *testing.T) {
	if !(DailySummary{Difference: decimal.Zero}).Positive() {
		t.Fatal("zero difference counts as positive")
	}
	if (DailySummary{Difference: decimal.NewFromInt(-1)}).Positive() {
		t.Fatal("negative difference is not positive")
	}
	if (MonthlyReport{NetAccountBalance: decimal.NewFromInt(-1)}).Positive() {
		t.Fatal("negative balance is not positive")
	}
}
