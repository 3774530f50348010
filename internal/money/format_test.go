package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		code, amount, want string
	}{
		{"USD", "0.05", "$0.05"},
		{"USD", "0", "$0.00"},
		{"USD", "12.345", "$12.35"},
		{"usd", "-1.2", "-$1.20"},
		{"USD", "-0.001", "$0.00"},
		{"JPY", "150.4", "¥150"},
		{"EUR", "3", "€3.00"},
		{"CHF", "2.5", "CHF 2.50"},
		{"CAD", "1", "CA$1.00"},
		{"GBP", "0.5", "£0.50"},
		{"", "0.1", "$0.10"},
	}
	for _, tc := range cases {
		f, err := NewFormatter(tc.code)
		if err != nil {
			t.Fatalf("%s: %v", tc.code, err)
		}
		if got := f.Format(decimal.RequireFromString(tc.amount)); got != tc.want {
			t.Errorf("%s %s: got %q want %q", tc.code, tc.amount, got, tc.want)
		}
	}
}

func TestFormatterFunc(t *testing.T) {
	format := USD().Func()
	if got := format(decimal.New(5, -2)); got != "$0.05" {
		t.Fatalf("got %q", got)
	}
	if USD().Code() != "USD" {
		t.Fatalf("code=%s", USD().Code())
	}
}

func TestParseCurrencyRejectsJunk(t *testing.T) {
	for _, code := range []string{"dollars", "XX", "123"} {
		if _, err := ParseCurrency(code); err == nil {
			t.Errorf("%q should not parse", code)
		}
	}
}

func TestSymbolFollowsLocale(t *testing.T) {
	u, err := ParseCurrency("USD")
	if err != nil {
		t.Fatal(err)
	}
	if got := Symbol(u, language.AmericanEnglish); got != "$" {
		t.Fatalf("en-US symbol = %q", got)
	}
}
