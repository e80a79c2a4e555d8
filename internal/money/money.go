// Package money holds the fixed-point amount type used for every stored and
// transmitted value. Amounts are integer cents; decimal text is parsed with
// shopspring/decimal and rejected when it carries more than two decimals.
package money

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "wallet/internal/errors"
)

// Cents is an amount in minor units. Ledger entries use the sign for direction.
type Cents int64

// MaxAmount is the largest magnitude a single transaction may carry (999,999.00).
const MaxAmount Cents = 99_999_900

var (
	hundred  = decimal.NewFromInt(100)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// FromDecimal converts d to cents. It fails when d has sub-cent precision.
func FromDecimal(d decimal.Decimal) (Cents, error) {
	scaled := d.Mul(hundred)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("amount %s has more than two decimals", d.String())
	}
	if scaled.Abs().GreaterThan(maxInt64) {
		return 0, fmt.Errorf("amount %s is out of range", d.String())
	}
	return Cents(scaled.IntPart()), nil
}

// Parse reads a decimal amount such as "1000", "12.5", "-3.99" or "1.234,56".
// A single comma with no dot is read as the decimal separator; otherwise
// commas are thousands separators.
func Parse(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Count(s, ",") == 1:
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

// Decimal returns the amount as a decimal in major units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String renders the amount with exactly two decimals, e.g. "-333.34".
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// Abs returns the magnitude.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// Format renders a display string with thousands separators, e.g. "-$1,234.50".
func (c Cents) Format() string {
	sign := ""
	if c < 0 {
		sign = "-"
	}
	abs := c.Abs()
	whole := fmt.Sprintf("%d", int64(abs)/100)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s$%s.%02d", sign, b.String(), int64(abs)%100)
}

// MarshalJSON writes the amount as a bare decimal number.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (c *Cents) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	v, err := FromDecimal(d)
	if err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidAmount, err.Error())
	}
	*c = v
	return nil
}

// ValidatePositive checks 0 < c <= MaxAmount.
func ValidatePositive(c Cents) error {
	if c <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidAmount, "amount must be greater than zero")
	}
	if c > MaxAmount {
		return apperrors.WithMessage(apperrors.ErrInvalidAmount, "amount must not exceed "+MaxAmount.String())
	}
	return nil
}

// Sum adds amounts.
func Sum(amounts ...Cents) Cents {
	var total Cents
	for _, a := range amounts {
		total += a
	}
	return total
}
