// Package money provides currency-safe parsing and formatting for the
// monetary values found in statement PDFs. It combines shopspring/decimal
// for precision arithmetic with go-money for ISO-4217 aware display.
package money

import (
	"errors"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Common currency codes (ISO-4217)
const (
	USD = "USD" // US Dollar
	SGD = "SGD" // Singapore Dollar
	EUR = "EUR" // Euro
)

// ErrNotAnAmount indicates the input string does not contain a parseable
// monetary value.
var ErrNotAnAmount = errors.New("money: not a monetary amount")

// amountReplacer strips currency markers and digit grouping before decimal
// parsing. Statement cells mix "S$1,234.56", "$12.60" and "-12.60".
var amountReplacer = strings.NewReplacer(
	"S$", "",
	"SGD", "",
	"USD", "",
	"$", "",
	",", "",
	" ", "",
)

// Parse converts a statement cell into a decimal amount.
// Accounting-style parentheses are treated as negation.
func Parse(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(amountReplacer.Replace(s))
	if cleaned == "" {
		return decimal.Zero, ErrNotAnAmount
	}

	negate := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negate = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, ErrNotAnAmount
	}
	if negate {
		d = d.Neg()
	}
	return d, nil
}

// IsAmount reports whether the string parses as a monetary amount.
func IsAmount(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Format renders a decimal amount with the currency's symbol and grouping,
// e.g. Format(d, "USD") -> "$2,822.54".
func Format(d decimal.Decimal, currencyCode string) string {
	currency := money.GetCurrency(currencyCode)
	if currency == nil {
		currency = money.GetCurrency(USD)
	}

	// Convert to minor units with decimal precision before handing off
	// to go-money for display.
	multiplier := decimal.New(1, int32(currency.Fraction))
	cents := d.Mul(multiplier).Round(0).IntPart()

	return money.New(cents, currency.Code).Display()
}
