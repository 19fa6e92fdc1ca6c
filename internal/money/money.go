// Package money parses user supplied amounts and formats them for display.
package money

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultSymbol is used when no currency symbol is configured.
const DefaultSymbol = "₹"

// MaxIntegerDigits matches the storage column, NUMERIC(14,2).
const MaxIntegerDigits = 12

var (
	ErrNegative  = errors.New("amount must not be negative")
	ErrPrecision = errors.New("amount must have at most two decimal places")
	ErrTooLarge  = errors.New("amount is too large")
)

// Parse converts a plain decimal string such as "12.50" into a Decimal.
// Negative values, more than two decimal places and more than MaxIntegerDigits whole digits are rejected.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, err
	}

	if d.IsNegative() {
		return decimal.Zero, ErrNegative
	}

	if !d.Equal(d.Truncate(2)) {
		return decimal.Zero, ErrPrecision
	}

	if len(d.Truncate(0).String()) > MaxIntegerDigits {
		return decimal.Zero, ErrTooLarge
	}

	return d, nil
}

// Formatter renders amounts with a fixed currency symbol and two decimals.
type Formatter struct {
	symbol  string
	printer *message.Printer
}

// NewFormatter creates a Formatter. An empty symbol falls back to DefaultSymbol.
func NewFormatter(symbol string) *Formatter {
	if symbol == "" {
		symbol = DefaultSymbol
	}

	return &Formatter{
		symbol:  symbol,
		printer: message.NewPrinter(language.English),
	}
}

// Format renders d as e.g. "₹1,234.50".
func (f *Formatter) Format(d decimal.Decimal) string {
	d = d.Round(2)

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	whole, frac, _ := strings.Cut(d.StringFixed(2), ".")

	return sign + f.symbol + f.group(whole) + "." + frac
}

// group inserts thousands separators into a string of digits.
func (f *Formatter) group(digits string) string {
	if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return f.printer.Sprintf("%d", n)
	}

	var b strings.Builder

	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}

		b.WriteRune(r)
	}

	return b.String()
}

// Fixed renders d with exactly two decimals and no symbol, the wire format for amounts.
func Fixed(d decimal.Decimal) string {
	return d.StringFixed(2)
}

var std = NewFormatter(DefaultSymbol)

// Format renders d with DefaultSymbol.
func Format(d decimal.Decimal) string {
	return std.Format(d)
}
