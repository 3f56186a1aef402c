package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"smallcase/internal/logger"
	"smallcase/internal/models"
)

// auditService writes basket and price operations to the audit_logs table.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records entry. Failures are logged and otherwise ignored so a
// successful basket change is never reported as failed.
func (s *auditService) Log(entry AuditEntry) {
	row := &models.AuditLog{
		UserID:       entry.UserID,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		IPAddress:    entry.IPAddress,
		RequestID:    entry.RequestID,
		Changes:      encodeChanges(entry),
	}

	if err := s.db.Create(row).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"user_id", entry.UserID,
			"action", entry.Action,
			"resource_type", entry.ResourceType,
			"resource_id", entry.ResourceID,
			"request_id", entry.RequestID,
		)
	}
}

func encodeChanges(entry AuditEntry) string {
	if entry.Changes == nil {
		return ""
	}
	data, err := json.Marshal(entry.Changes)
	if err != nil {
		logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", entry.Action)
		return "{}"
	}
	return string(data)
}
