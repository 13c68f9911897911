package models

import "time"

// AuditLog records who did what against which entity, written by the
// transition controllers alongside the workflow change.
type AuditLog struct {
	AuditID      int       `gorm:"primaryKey;column:audit_id" json:"audit_id"`
	UserID       int       `gorm:"column:user_id" json:"user_id"`
	Action       string    `gorm:"column:action" json:"action"`
	EntityType   string    `gorm:"column:entity_type" json:"entity_type"`
	EntityID     *uint     `gorm:"column:entity_id" json:"entity_id,omitempty"`
	EntityNumber *string   `gorm:"column:entity_number" json:"entity_number,omitempty"`
	NewValues    *string   `gorm:"column:new_values" json:"new_values,omitempty"`
	Description  *string   `gorm:"column:description" json:"description,omitempty"`
	IPAddress    string    `gorm:"column:ip_address" json:"ip_address"`
	UserAgent    *string   `gorm:"column:user_agent" json:"user_agent,omitempty"`
	CreateAt     time.Time `gorm:"column:create_at" json:"create_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
