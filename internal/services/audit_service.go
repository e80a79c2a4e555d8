package services

import (
	"encoding/json"

	"wallet/internal/logger"
	"wallet/internal/models"
	"wallet/internal/money"

	"gorm.io/gorm"
)

// AuditEvent is a single write to a user's wallet.
type AuditEvent struct {
	UserID    string
	Action    models.AuditAction
	Subject   string // "user", "transaction" or "category"
	SubjectID string
	Amount    money.Cents
	Period    string
	ClientIP  string
	Details   map[string]any
}

type auditService struct {
	db *gorm.DB
}

// NewAuditService returns an AuditServicer writing to the audit_logs table.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Record stores ev. The request has already succeeded by the time it is
// called, so a failed insert is only logged.
func (s *auditService) Record(ev AuditEvent) {
	row := &models.AuditLog{
		UserID:    ev.UserID,
		Action:    ev.Action,
		Subject:   ev.Subject,
		SubjectID: ev.SubjectID,
		Amount:    ev.Amount,
		Period:    ev.Period,
		ClientIP:  ev.ClientIP,
	}
	if len(ev.Details) > 0 {
		data, err := json.Marshal(ev.Details)
		if err != nil {
			logger.Get().Warnw("Dropping audit details", "action", ev.Action, "error", err)
		} else {
			row.Details = string(data)
		}
	}

	if err := s.db.Create(row).Error; err != nil {
		logger.Get().Errorw("Failed to record audit event",
			"error", err,
			"user_id", ev.UserID,
			"action", ev.Action,
			"subject", ev.Subject,
			"subject_id", ev.SubjectID,
		)
	}
}
