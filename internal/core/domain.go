package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// OpeningBalanceCategory tags the synthetic income transaction created with an account.
const OpeningBalanceCategory = "Opening Balance"

// DateLayout is the only accepted calendar date format.
const DateLayout = "2006-01-02"

type (
	TransactionType string

	Transaction struct {
		ID       int64           `json:"id"`
		Type     TransactionType `json:"type"`
		Title    string          `json:"title"`
		Category string          `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
		Date     string          `json:"date"` // YYYY-MM-DD
	}

	Account struct {
		ID      int64           `json:"id"`
		Name    string          `json:"name"`
		Balance decimal.Decimal `json:"balance"`
	}

	// TransactionInput carries the caller-supplied fields of a new transaction.
	TransactionInput struct {
		Type     TransactionType
		Title    string
		Category string
		Amount   decimal.Decimal
		Date     string // empty means today
	}

	// TransactionEdit replaces every editable field. An empty Date keeps the stored one.
	TransactionEdit struct {
		Type     TransactionType
		Title    string
		Category string
		Amount   decimal.Decimal
		Date     string
	}
)

func init() {
	// Persisted snapshots carry amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Valid reports whether t is one of the two known directions.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (t TransactionType) String() string {
	return string(t)
}

// ParseTransactionType normalizes user input such as "Expense" or " income ".
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", &ValidationError{Field: "type", Err: ErrInvalidType}
	}
	return t, nil
}

// Month returns the YYYY-MM grouping key of the transaction date.
func (t Transaction) Month() string {
	return MonthKey(t.Date)
}

// Signed returns the amount with the direction applied: negative for expenses.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// MonthKey returns the first seven characters of an ISO date.
func MonthKey(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// FormatDate renders t in the ledger date layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidateDate checks that s is exactly a YYYY-MM-DD calendar date.
func ValidateDate(s string) error {
	if len(s) != len(DateLayout) {
		return &ValidationError{Field: "date", Err: ErrInvalidDate}
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return &ValidationError{Field: "date", Err: ErrInvalidDate}
	}
	return nil
}

// ValidateMonth checks that s is exactly a YYYY-MM month key.
func ValidateMonth(s string) error {
	if len(s) != 7 {
		return &ValidationError{Field: "month", Err: ErrInvalidMonth}
	}
	if _, err := time.Parse("2006-01", s); err != nil {
		return &ValidationError{Field: "month", Err: ErrInvalidMonth}
	}
	return nil
}

// Validate checks the fields shared by new and edited transactions.
func (in TransactionInput) Validate() error {
	return validateFields(in.Type, in.Title, in.Category, in.Amount)
}

func (e TransactionEdit) Validate() error {
	if err := validateFields(e.Type, e.Title, e.Category, e.Amount); err != nil {
		return err
	}
	if e.Date != "" {
		return ValidateDate(e.Date)
	}
	return nil
}

func validateFields(t TransactionType, title, category string, amount decimal.Decimal) error {
	if !t.Valid() {
		return &ValidationError{Field: "type", Err: ErrInvalidType}
	}
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Err: ErrEmptyTitle}
	}
	if strings.TrimSpace(category) == "" {
		return &ValidationError{Field: "category", Err: ErrEmptyCategory}
	}
	if !amount.IsPositive() {
		return &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}
	return nil
}

// OpeningBalanceTitle is the title of the synthetic transaction for an account.
func OpeningBalanceTitle(accountName string) string {
	return "Opening Balance - " + accountName
}
