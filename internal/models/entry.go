package models

import (
	"time"

	"gorm.io/gorm"

	"wallet/internal/money"
	"wallet/internal/period"
)

// Entry is one dated ledger line. Amount is negative for expenses.
type Entry struct {
	Base
	UserID            string      `gorm:"type:uuid;not null;index:idx_entries_user_period,priority:1" json:"-"`
	TransactionID     string      `gorm:"type:uuid;not null;index" json:"transaction_id"`
	CategoryID        *string     `gorm:"type:uuid;index" json:"category_id"`
	Type              EntryType   `gorm:"size:20;not null" json:"type"`
	Name              string      `gorm:"size:120;not null" json:"name"`
	Description       string      `gorm:"size:400" json:"description"`
	Amount            money.Cents `gorm:"type:bigint;not null" json:"amount"`
	ReferenceDate     time.Time   `gorm:"not null;index" json:"reference_date"`
	Period            string      `gorm:"size:6;not null;index:idx_entries_user_period,priority:2" json:"period"`
	Installment       int         `gorm:"not null;default:1" json:"installment"`
	TotalInstallments int         `gorm:"not null;default:1" json:"total_installments"`
	TotalAmount       money.Cents `gorm:"type:bigint;not null" json:"total_amount"`

	// Joined from categories on read; empty once the category is deleted.
	CategoryName  string `gorm:"->;-:migration" json:"category_name,omitempty"`
	CategoryColor string `gorm:"->;-:migration" json:"category_color,omitempty"`
}

// BeforeSave keeps Period in step with ReferenceDate.
func (e *Entry) BeforeSave(tx *gorm.DB) error {
	e.Period = period.Of(e.ReferenceDate).String()
	return nil
}
