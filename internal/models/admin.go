// internal/models/admin.go
package models

// AuditLog records one admin mutation against the catalog.
type AuditLog struct {
	BaseModel
	AdminEmail   string `json:"admin_email" gorm:"size:255;index"`
	Action       string `json:"action" gorm:"size:100;not null;index"`
	ResourceType string `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceSlug string `json:"resource_slug,omitempty" gorm:"size:200;index"`
	Status       int    `json:"status"`
	NewValues    JSONB  `json:"new_values" gorm:"type:jsonb"`
	IPAddress    string `json:"ip_address" gorm:"size:45"`
	UserAgent    string `json:"user_agent" gorm:"type:text"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
