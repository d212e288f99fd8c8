package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog append-only action record, table audit_logs
// ResourceID is a soft reference: the resource may no longer exist.
// MemberName is the actor's display name at write time.
type AuditLog struct {
	ID           string         `gorm:"type:uuid;primaryKey"                                json:"id"`
	UserID       *string        `gorm:"type:uuid;index"                                     json:"user_id"`
	MemberName   string         `gorm:"type:varchar(150);not null"                          json:"member_name"`
	ActionType   ActionType     `gorm:"type:varchar(40);not null;index:idx_audit_action_created,priority:1" json:"action_type"`
	ResourceType ResourceType   `gorm:"type:varchar(30);not null"                           json:"resource_type"`
	ResourceID   string         `gorm:"type:varchar(64);not null;index"                     json:"resource_id"`
	Details      datatypes.JSON `json:"details"`
	CreatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_audit_action_created,priority:2" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }

func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	newID(&l.ID)
	return nil
}
