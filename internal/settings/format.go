package settings

import (
	"strings"
	"sync"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const nbsp = "\u00a0"

// Locale picks the formatting locale for a currency code.
func Locale(code string) language.Tag {
	switch strings.ToUpper(code) {
	case "IDR":
		return language.MustParse("id-ID")
	case "EUR":
		return language.MustParse("de-DE")
	case "GBP":
		return language.MustParse("en-GB")
	case "JPY":
		return language.MustParse("ja-JP")
	default:
		return language.AmericanEnglish
	}
}

type pattern struct {
	printer     *message.Printer
	symbol      string
	group       string
	symbolAfter bool
	spaced      bool
}

func resolve(code string) pattern {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = DefaultCurrency
	}
	tag := Locale(code)
	p := pattern{printer: message.NewPrinter(tag), symbol: code}
	p.group = groupSeparator(p.printer)

	if unit, err := currency.ParseISO(code); err == nil {
		p.symbol = p.printer.Sprint(currency.Symbol(unit))
	}

	base, _ := tag.Base()
	switch base.String() {
	case "id":
		p.spaced = true
	case "de":
		p.symbolAfter = true
		p.spaced = true
	default:
		p.spaced = isAlphabetic(p.symbol)
	}
	return p
}

func isAlphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

// groupSeparator asks the locale how it writes one thousand.
func groupSeparator(pr *message.Printer) string {
	s := pr.Sprint(number.Decimal(1000))
	return strings.TrimSuffix(strings.TrimPrefix(s, "1"), "000")
}

// groupDigits inserts sep every three digits from the right. The ledger
// locales all group by thousands.
func groupDigits(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func (p pattern) format(amount decimal.Decimal) string {
	// The whole part is grouped as text so amounts beyond int64 stay exact.
	digits := groupDigits(amount.Abs().Round(0).StringFixed(0), p.group)
	sep := ""
	if p.spaced {
		sep = nbsp
	}
	if p.symbolAfter {
		return digits + sep + p.symbol
	}
	return p.symbol + sep + digits
}

// FormatCurrency renders the magnitude of amount in the currency of s, rounded
// half away from zero to whole units. The sign is dropped; callers convey
// direction separately.
func FormatCurrency(amount decimal.Decimal, s Settings) string {
	return resolve(s.WithDefaults().Currency).format(amount)
}

// Formatter caches the resolved pattern for the current currency.
type Formatter struct {
	mu       sync.RWMutex
	currency string
	pattern  pattern
}

func NewFormatter(s Settings) *Formatter {
	f := &Formatter{}
	f.Refresh(s)
	return f
}

// Refresh re-resolves the pattern when the currency changed.
func (f *Formatter) Refresh(s Settings) {
	code := s.WithDefaults().Currency
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.currency == code && f.pattern.printer != nil {
		return
	}
	f.currency = code
	f.pattern = resolve(code)
}

func (f *Formatter) Format(amount decimal.Decimal) string {
	f.mu.RLock()
	p := f.pattern
	f.mu.RUnlock()
	return p.format(amount)
}
