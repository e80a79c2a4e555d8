// Package amortization splits an installment purchase into monthly line items.
//
// The total is divided in integer cents. The part that does not divide evenly
// is added to the first installment, so the line items always sum to the total.
package amortization

import (
	"fmt"
	"time"

	apperrors "wallet/internal/errors"
	"wallet/internal/money"
	"wallet/internal/period"
)

// Installment count bounds for installment drafts. Compute only enforces
// MinInstallments; the upper bound belongs to input validation.
const (
	MinInstallments = 2
	MaxInstallments = 1000
)

// LineItem is one installment of a plan.
type LineItem struct {
	Index  int // 1-based
	Period period.Period
	Date   time.Time
	Name   string
	Amount money.Cents
}

// Compute splits total into count monthly installments starting at start.
// Installment i falls on start plus i calendar months, clamped to month end.
// It rejects a non-positive total and fewer than two installments; larger
// totals and counts are accepted.
func Compute(total money.Cents, count int, start time.Time, name string) ([]LineItem, error) {
	if total <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "amount must be greater than zero")
	}
	if count < MinInstallments {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInstallmentCount,
			fmt.Sprintf("installment count must be at least %d, got %d", MinInstallments, count))
	}

	base := total / money.Cents(count)
	remainder := total - base*money.Cents(count)

	items := make([]LineItem, count)
	for i := range items {
		date := period.AddMonthsClamped(start, i)
		amount := base
		if i == 0 {
			amount += remainder
		}
		items[i] = LineItem{
			Index:  i + 1,
			Period: period.Of(date),
			Date:   date,
			Name:   Label(name, i+1, count),
			Amount: amount,
		}
	}
	return items, nil
}

// Label formats an installment name, e.g. "Rent (2/12)".
func Label(name string, index, count int) string {
	return fmt.Sprintf("%s (%d/%d)", name, index, count)
}

// Total sums the amounts of items.
func Total(items []LineItem) money.Cents {
	var total money.Cents
	for _, it := range items {
		total += it.Amount
	}
	return total
}
