package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"fintrack/internal/logger"
	"fintrack/internal/models"
)

// auditService handles audit log recording.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(actor, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		Actor:        actor,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"actor", actor,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

// logAuditService writes audit events to the application log. It serves
// the memory storage driver, which has no audit table.
type logAuditService struct{}

// NewLogAuditService creates an AuditServicer that only logs.
func NewLogAuditService() AuditServicer {
	return logAuditService{}
}

func (logAuditService) Log(actor, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	logger.Get().Infow("audit",
		"actor", actor,
		"action", action,
		"resource_type", resourceType,
		"resource_id", resourceID,
		"ip_address", ipAddress,
		"changes", changes,
	)
}
