package models

import "wallet/internal/money"

// AuditAction names a write recorded in the audit trail.
type AuditAction string

const (
	AuditRegister          AuditAction = "REGISTER"
	AuditLogin             AuditAction = "LOGIN"
	AuditCreateTransaction AuditAction = "CREATE_TRANSACTION"
	AuditUpdateTransaction AuditAction = "UPDATE_TRANSACTION"
	AuditDeleteTransaction AuditAction = "DELETE_TRANSACTION"
	AuditCreateCategory    AuditAction = "CREATE_CATEGORY"
	AuditUpdateCategory    AuditAction = "UPDATE_CATEGORY"
	AuditDeleteCategory    AuditAction = "DELETE_CATEGORY"
)

// AuditLog is one row of a user's audit trail. Amount and Period are set for
// transaction writes when the handler knows them.
type AuditLog struct {
	Base
	UserID    string      `gorm:"type:uuid;not null;index" json:"user_id"`
	Action    AuditAction `gorm:"size:32;not null" json:"action"`
	Subject   string      `gorm:"size:20;not null" json:"subject"`
	SubjectID string      `gorm:"type:uuid" json:"subject_id"`
	Amount    money.Cents `gorm:"type:bigint;not null;default:0" json:"amount"`
	Period    string      `gorm:"size:6" json:"period,omitempty"`
	ClientIP  string      `json:"client_ip"`
	Details   string      `json:"details,omitempty"`
}
