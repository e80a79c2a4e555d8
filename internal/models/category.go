package models

// Category labels transactions. Deleting one leaves its entries uncategorized.
type Category struct {
	Base
	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	Name   string `gorm:"size:100;not null" json:"name"`
	Color  string `gorm:"size:7;not null" json:"color"`
}
