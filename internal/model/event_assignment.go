package model

import (
	"time"

	"gorm.io/gorm"
)

// Assignment statuses
const (
	AssignmentStatusPending   = "pendente"
	AssignmentStatusConfirmed = "confirmado"
	AssignmentStatusRefused   = "recusado"
)

// EventAssignment one volunteer slot for one task in one event, table event_assignments
// MemberID nil means the slot is open; Status is only meaningful once a
// member is attached.
type EventAssignment struct {
	ID        string    `gorm:"type:uuid;primaryKey"                         json:"id"`
	EventID   string    `gorm:"type:uuid;not null;index"                     json:"event_id"`
	TaskID    string    `gorm:"type:uuid;not null;index"                     json:"task_id"`
	MemberID  *string   `gorm:"type:uuid;index"                              json:"member_id"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pendente'" json:"status"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"           json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"           json:"updated_at"`

	Event  *Event  `gorm:"foreignKey:EventID;references:ID;constraint:OnDelete:CASCADE"      json:"event,omitempty"`
	Task   *Task   `gorm:"foreignKey:TaskID;references:ID;constraint:OnDelete:CASCADE"       json:"task,omitempty"`
	Member *Member `gorm:"foreignKey:MemberID;references:ID;constraint:OnDelete:SET NULL"    json:"member,omitempty"`
}

func (EventAssignment) TableName() string { return "event_assignments" }

func (a *EventAssignment) BeforeCreate(tx *gorm.DB) error {
	newID(&a.ID)
	return nil
}

// IsOpen reports whether no member holds the slot
func (a *EventAssignment) IsOpen() bool {
	return a.MemberID == nil || *a.MemberID == ""
}
