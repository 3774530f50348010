// Package money turns raw decimal amounts into display strings.
package money

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is what the task pays in when nothing else is configured.
const DefaultCurrency = "USD"

// DisplayLocale picks currency symbols from CLDR, e.g. "$" for USD and
// "CA$" for CAD under en-US.
var DisplayLocale = language.AmericanEnglish

// FormatFunc maps an amount to display text.
type FormatFunc func(amount decimal.Decimal) string

// Formatter renders amounts in one currency, rounded to its minor unit.
type Formatter struct {
	Unit   currency.Unit
	Symbol string
	Scale  int32 // digits after the decimal point
}

// ParseCurrency parses an ISO 4217 code such as "USD".
func ParseCurrency(code string) (currency.Unit, error) {
	u, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return currency.Unit{}, fmt.Errorf("parse currency %q: %w", code, err)
	}
	return u, nil
}

// NewFormatter builds a Formatter for an ISO code; "" means DefaultCurrency.
func NewFormatter(code string) (Formatter, error) {
	if code == "" {
		code = DefaultCurrency
	}
	u, err := ParseCurrency(code)
	if err != nil {
		return Formatter{}, err
	}
	scale, _ := currency.Standard.Rounding(u)
	return Formatter{Unit: u, Symbol: Symbol(u, DisplayLocale), Scale: int32(scale)}, nil
}

// Symbol is the CLDR symbol for u in tag. Symbols that end in a letter,
// like "CHF", get a trailing space so they do not run into the digits.
func Symbol(u currency.Unit, tag language.Tag) string {
	sym := message.NewPrinter(tag).Sprint(currency.Symbol(u))
	if r, _ := utf8.DecodeLastRuneInString(sym); unicode.IsLetter(r) {
		sym += " "
	}
	return sym
}

// USD is the formatter the original task used.
func USD() Formatter {
	f, _ := NewFormatter("USD")
	return f
}

// Format renders amount as e.g. "$0.05" or "-$1.20".
func (f Formatter) Format(amount decimal.Decimal) string {
	s := amount.Abs().StringFixed(f.Scale)
	if amount.Round(f.Scale).IsNegative() {
		return "-" + f.Symbol + s
	}
	return f.Symbol + s
}

// Func exposes Format as a capability that can be passed around.
func (f Formatter) Func() FormatFunc { return f.Format }

// Code is the ISO code, e.g. "USD".
func (f Formatter) Code() string { return f.Unit.String() }
