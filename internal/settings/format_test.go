package settings

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLocale(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"IDR", "id-ID"},
		{"EUR", "de-DE"},
		{"GBP", "en-GB"},
		{"JPY", "ja-JP"},
		{"USD", "en-US"},
		{"CHF", "en-US"},
		{"", "en-US"},
	}
	for _, tt := range tests {
		if got := Locale(tt.code); got.String() != tt.want {
			t.Errorf("Locale(%q) = %v, want %s", tt.code, got, tt.want)
		}
	}
}

func TestFormatCurrencyDigits(t *testing.T) {
	tests := []struct {
		name     string
		currency string
		amount   string
		contains string
	}{
		{"us grouping", "USD", "1234567", "1,234,567"},
		{"rounds half up", "USD", "1234567.5", "1,234,568"},
		{"rounds down", "USD", "2.49", "2"},
		{"indonesian grouping", "IDR", "50000", "50.000"},
		{"german grouping", "EUR", "1234", "1.234"},
		{"zero", "IDR", "0", "0"},
		{"beyond int64", "USD", "100000000000000000000", "100,000,000,000,000,000,000"},
		{"beyond int64 indonesian", "IDR", "12345678901234567890123", "12.345.678.901.234.567.890.123"},
		{"three digits", "USD", "999", "999"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCurrency(decimal.RequireFromString(tt.amount), Settings{Currency: tt.currency})
			if !strings.Contains(got, tt.contains) {
				t.Fatalf("FormatCurrency(%s %s) = %q, want it to contain %q", tt.amount, tt.currency, got, tt.contains)
			}
		})
	}
}

func TestFormatCurrencyDropsSign(t *testing.T) {
	for _, code := range []string{"IDR", "EUR", "USD", "GBP", "JPY"} {
		neg := FormatCurrency(decimal.NewFromInt(-1500), Settings{Currency: code})
		pos := FormatCurrency(decimal.NewFromInt(1500), Settings{Currency: code})
		if neg != pos || strings.Contains(neg, "-") {
			t.Errorf("%s: negative %q and positive %q should match without a sign", code, neg, pos)
		}
	}
}

func TestFormatCurrencyHalfAwayFromZero(t *testing.T) {
	got := FormatCurrency(decimal.RequireFromString("-0.5"), Settings{Currency: "USD"})
	if !strings.HasSuffix(got, "1") {
		t.Fatalf("-0.5 should render as 1, got %q", got)
	}
}

func TestFormatCurrencyPlacement(t *testing.T) {
	eur := FormatCurrency(decimal.NewFromInt(1234), Settings{Currency: "EUR"})
	if !strings.HasPrefix(eur, "1.234"+nbsp) {
		t.Errorf("euro symbol should follow the digits, got %q", eur)
	}
	usd := FormatCurrency(decimal.NewFromInt(1234), Settings{Currency: "USD"})
	if !strings.HasSuffix(usd, "1,234") || strings.HasPrefix(usd, "1") {
		t.Errorf("dollar symbol should lead the digits, got %q", usd)
	}
	idr := FormatCurrency(decimal.NewFromInt(1234), Settings{Currency: "IDR"})
	if !strings.HasSuffix(idr, nbsp+"1.234") {
		t.Errorf("rupiah symbol should lead with a space, got %q", idr)
	}
}

func TestFormatCurrencyUnknownCode(t *testing.T) {
	got := FormatCurrency(decimal.NewFromInt(1000), Settings{Currency: "ABC"})
	if got != "ABC"+nbsp+"1,000" {
		t.Fatalf("unknown codes should be printed verbatim, got %q", got)
	}
}

func TestFormatterRefresh(t *testing.T) {
	f := NewFormatter(Settings{})
	if f.currency != "IDR" {
		t.Fatalf("formatter should default to IDR, got %s", f.currency)
	}
	amount := decimal.NewFromInt(987654)
	if got, want := f.Format(amount), FormatCurrency(amount, Default()); got != want {
		t.Fatalf("Format = %q, want %q", got, want)
	}

	f.Refresh(Settings{Currency: "USD"})
	if got, want := f.Format(amount), FormatCurrency(amount, Settings{Currency: "USD"}); got != want {
		t.Fatalf("after refresh Format = %q, want %q", got, want)
	}
}

func TestGroupDigits(t *testing.T) {
	tests := []struct {
		in, sep, want string
	}{
		{"0", ",", "0"},
		{"100", ",", "100"},
		{"1000", ".", "1.000"},
		{"123456", ",", "123,456"},
		{"1234567", ",", "1,234,567"},
		{"100000000000000000000", ",", "100,000,000,000,000,000,000"},
	}
	for _, tt := range tests {
		if got := groupDigits(tt.in, tt.sep); got != tt.want {
			t.Errorf("groupDigits(%q, %q) = %q, want %q", tt.in, tt.sep, got, tt.want)
		}
	}
}
