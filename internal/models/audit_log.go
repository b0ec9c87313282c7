package models

// AuditLog records administrative changes for accountability.
type AuditLog struct {
	Base
	Actor        string `gorm:"size:100;not null;index" json:"actor"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   string `gorm:"type:uuid" json:"resource_id"`
	IPAddress    string `json:"ip_address"`
	Changes      string `json:"changes,omitempty"`
}
