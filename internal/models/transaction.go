package models

import (
	"time"

	"wallet/internal/money"
)

// EntryType is the kind of transaction an entry belongs to.
type EntryType string

const (
	EntryTypeSimpleExpense EntryType = "simple_expense"
	EntryTypeIncome        EntryType = "income"
	EntryTypeInstallment   EntryType = "installment"
)

// Valid reports whether t is a known type.
func (t EntryType) Valid() bool {
	switch t {
	case EntryTypeSimpleExpense, EntryTypeIncome, EntryTypeInstallment:
		return true
	}
	return false
}

// IsExpense reports whether entries of this type carry negative amounts.
func (t EntryType) IsExpense() bool {
	return t == EntryTypeSimpleExpense || t == EntryTypeInstallment
}

// Signed applies the type's direction to a positive magnitude.
func (t EntryType) Signed(magnitude money.Cents) money.Cents {
	if t.IsExpense() {
		return -magnitude.Abs()
	}
	return magnitude.Abs()
}

// Transaction is one financial event. Simple expenses and incomes own a
// single entry; installment plans own one entry per installment.
type Transaction struct {
	Base
	UserID        string      `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID    *string     `gorm:"type:uuid" json:"category_id"`
	Type          EntryType   `gorm:"size:20;not null" json:"type"`
	Name          string      `gorm:"size:100;not null" json:"name"`
	Note          string      `gorm:"size:400" json:"note"`
	TotalAmount   money.Cents `gorm:"type:bigint;not null" json:"total_amount"`
	Installments  int         `gorm:"not null;default:1" json:"installments"`
	ReferenceDate time.Time   `gorm:"not null" json:"reference_date"`

	Entries  []Entry   `gorm:"foreignKey:TransactionID" json:"entries,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
