// Package money converts between user-entered amounts and the cents stored in the ledger.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ErrInvalidAmount = errors.New("invalid amount")

var hundred = decimal.NewFromInt(100)

// Parse parses an amount typed by a user into cents.
// Both "1234.56" and "1.234,56" are accepted; when both separators appear the last one is the
// decimal separator. A currency prefix ("R$") is ignored.
func Parse(s string) (int64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "R$")
	clean = strings.ReplaceAll(clean, " ", "")

	if clean == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	lastDot := strings.LastIndex(clean, ".")
	lastComma := strings.LastIndex(clean, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0 && lastComma > lastDot:
		// 1.234,56
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	case lastDot >= 0 && lastComma >= 0:
		// 1,234.56
		clean = strings.ReplaceAll(clean, ",", "")
	case lastComma >= 0:
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	return d.Mul(hundred).Round(0).IntPart(), nil
}

// Split divides total into n parts that add up to total exactly.
// The remainder cents go to the first parts, one cent each.
func Split(total int64, n int) []int64 {
	if n <= 0 {
		return nil
	}

	q, r := decimal.NewFromInt(total).QuoRem(decimal.NewFromInt(int64(n)), 0)
	base := q.IntPart()
	rem := r.IntPart()

	parts := make([]int64, n)
	for i := range parts {
		parts[i] = base
		if int64(i) < rem {
			parts[i]++
		}
	}

	return parts
}

// ToFloat converts cents to a float amount for display.
func ToFloat(cents int64) float64 {
	return decimal.New(cents, -2).InexactFloat64()
}

// FormatPlain renders cents as an editable decimal, e.g. "1234.56". Parse reads it back.
func FormatPlain(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Format renders cents as a Brazilian real amount, e.g. "R$ 1.234,56".
func Format(cents int64) string {
	return printer.Sprintf("%v %.2f", currency.Symbol(currency.BRL), ToFloat(cents))
}

// Reais is an amount in cents that travels in JSON as a decimal number of reais (12345 <-> 123.45).
// Quoted numbers are accepted when decoding.
type Reais int64

func (r Reais) MarshalJSON() ([]byte, error) {
	return []byte(decimal.New(int64(r), -2).StringFixed(2)), nil
}

func (r *Reais) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = 0
		return nil
	}

	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, b)
	}

	*r = Reais(d.Mul(hundred).Round(0).IntPart())

	return nil
}
