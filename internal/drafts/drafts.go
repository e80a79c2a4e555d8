// Package drafts defines the transaction variants a user can save and expands
// each of them into the ledger entries it produces.
package drafts

import (
	"fmt"
	"time"
	"unicode/utf8"

	"wallet/internal/amortization"
	apperrors "wallet/internal/errors"
	"wallet/internal/models"
	"wallet/internal/money"
)

// Field limits shared by every variant.
const (
	MaxNameLength = 100
	MaxNoteLength = 400
)

// TransactionDraft is one of SimpleExpense, Income or Installment.
type TransactionDraft interface {
	Type() models.EntryType
	Validate() error
	header() Header
}

// Header carries the fields every variant has.
type Header struct {
	Name       string
	Note       string
	CategoryID *string
}

func (h Header) header() Header { return h }

func (h Header) validate() error {
	n := utf8.RuneCountInString(h.Name)
	if n == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if n > MaxNameLength {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("name must be at most %d characters", MaxNameLength))
	}
	if utf8.RuneCountInString(h.Note) > MaxNoteLength {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("note must be at most %d characters", MaxNoteLength))
	}
	return nil
}

// SimpleExpense is a single outgoing payment. Amount is the positive magnitude.
type SimpleExpense struct {
	Header
	Amount money.Cents
	Date   time.Time
}

// Type implements TransactionDraft.
func (SimpleExpense) Type() models.EntryType { return models.EntryTypeSimpleExpense }

// Validate implements TransactionDraft.
func (d SimpleExpense) Validate() error {
	if err := d.Header.validate(); err != nil {
		return err
	}
	return validateSingle(d.Amount, d.Date)
}

// Income is a single incoming payment. Amount is the positive magnitude.
type Income struct {
	Header
	Amount money.Cents
	Date   time.Time
}

// Type implements TransactionDraft.
func (Income) Type() models.EntryType { return models.EntryTypeIncome }

// Validate implements TransactionDraft.
func (d Income) Validate() error {
	if err := d.Header.validate(); err != nil {
		return err
	}
	return validateSingle(d.Amount, d.Date)
}

// Installment is a purchase paid over Count months from StartDate. When
// Overrides is set it replaces the computed schedule, one line per installment.
type Installment struct {
	Header
	Amount    money.Cents
	Count     int
	StartDate time.Time
	Overrides []Line
}

// Line is a user-supplied installment: a signed amount and a date.
type Line struct {
	Amount        money.Cents
	ReferenceDate time.Time
}

// Type implements TransactionDraft.
func (Installment) Type() models.EntryType { return models.EntryTypeInstallment }

// Validate implements TransactionDraft.
func (d Installment) Validate() error {
	if err := d.Header.validate(); err != nil {
		return err
	}
	if d.StartDate.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "reference_date is required")
	}
	if d.Count < amortization.MinInstallments || d.Count > amortization.MaxInstallments {
		return apperrors.WithMessage(apperrors.ErrInvalidInstallmentCount,
			fmt.Sprintf("installment count must be between %d and %d, got %d",
				amortization.MinInstallments, amortization.MaxInstallments, d.Count))
	}
	if len(d.Overrides) == 0 {
		return money.ValidatePositive(d.Amount)
	}
	if len(d.Overrides) != d.Count {
		return apperrors.WithMessage(apperrors.ErrEntryCountMismatch,
			fmt.Sprintf("expected %d entries, got %d", d.Count, len(d.Overrides)))
	}
	return validateLines(models.EntryTypeInstallment, d.Overrides)
}

func validateSingle(amount money.Cents, date time.Time) error {
	if date.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "reference_date is required")
	}
	return money.ValidatePositive(amount)
}

// validateLines checks signed lines against the direction of t and the total ceiling.
func validateLines(t models.EntryType, lines []Line) error {
	var total money.Cents
	for i, l := range lines {
		if l.ReferenceDate.IsZero() {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("entries[%d]: reference_date is required", i))
		}
		if t.IsExpense() && l.Amount > 0 || !t.IsExpense() && l.Amount < 0 {
			return apperrors.WithMessage(apperrors.ErrInvalidAmount,
				fmt.Sprintf("entries[%d]: amount sign does not match %s", i, t))
		}
		total += l.Amount.Abs()
	}
	return money.ValidatePositive(total)
}

// Build validates d and expands it into a transaction with its entries.
// The returned rows are not yet persisted.
func Build(userID string, d TransactionDraft) (*models.Transaction, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	h := d.header()

	switch v := d.(type) {
	case SimpleExpense:
		return single(userID, h, v.Type(), v.Amount, v.Date), nil
	case Income:
		return single(userID, h, v.Type(), v.Amount, v.Date), nil
	case Installment:
		return installment(userID, h, v)
	default:
		return nil, apperrors.ErrInvalidTransactionType
	}
}

func single(userID string, h Header, t models.EntryType, amount money.Cents, date time.Time) *models.Transaction {
	return &models.Transaction{
		UserID:        userID,
		CategoryID:    h.CategoryID,
		Type:          t,
		Name:          h.Name,
		Note:          h.Note,
		TotalAmount:   amount,
		Installments:  1,
		ReferenceDate: date,
		Entries: []models.Entry{{
			UserID:            userID,
			CategoryID:        h.CategoryID,
			Type:              t,
			Name:              h.Name,
			Description:       h.Note,
			Amount:            t.Signed(amount),
			ReferenceDate:     date,
			Installment:       1,
			TotalInstallments: 1,
			TotalAmount:       amount,
		}},
	}
}

func installment(userID string, h Header, d Installment) (*models.Transaction, error) {
	lines := d.Overrides
	if len(lines) == 0 {
		items, err := amortization.Compute(d.Amount, d.Count, d.StartDate, h.Name)
		if err != nil {
			return nil, err
		}
		lines = make([]Line, len(items))
		for i, it := range items {
			lines[i] = Line{Amount: -it.Amount, ReferenceDate: it.Date}
		}
	}

	var total money.Cents
	for _, l := range lines {
		total += l.Amount.Abs()
	}

	tx := &models.Transaction{
		UserID:        userID,
		CategoryID:    h.CategoryID,
		Type:          models.EntryTypeInstallment,
		Name:          h.Name,
		Note:          h.Note,
		TotalAmount:   total,
		Installments:  d.Count,
		ReferenceDate: lines[0].ReferenceDate,
		Entries:       make([]models.Entry, len(lines)),
	}
	for i, l := range lines {
		tx.Entries[i] = models.Entry{
			UserID:            userID,
			CategoryID:        h.CategoryID,
			Type:              models.EntryTypeInstallment,
			Name:              amortization.Label(h.Name, i+1, d.Count),
			Description:       h.Note,
			Amount:            l.Amount,
			ReferenceDate:     l.ReferenceDate,
			Installment:       i + 1,
			TotalInstallments: d.Count,
			TotalAmount:       total,
		}
	}
	return tx, nil
}

// EntryName returns the display name of entry index (1-based) of a
// transaction, matching what Build produces.
func EntryName(t models.EntryType, name string, index, count int) string {
	if t == models.EntryTypeInstallment {
		return amortization.Label(name, index, count)
	}
	return name
}

// ValidateLines exposes the signed-line checks for edits of existing transactions.
func ValidateLines(t models.EntryType, lines []Line) error {
	return validateLines(t, lines)
}

// ValidateHeader checks name and note limits for edits of existing transactions.
func ValidateHeader(h Header) error {
	return h.validate()
}
