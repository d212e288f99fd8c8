package model

import "gorm.io/gorm"

// Task volunteer task catalog entry, table tasks
type Task struct {
	ID          string `gorm:"type:uuid;primaryKey"              json:"id"`
	Name        string `gorm:"type:varchar(150);not null"        json:"name"`
	Description string `gorm:"type:text"                         json:"description,omitempty"`
	Quantity    int    `gorm:"type:smallint;not null;default:1"  json:"quantity"` // default slots per event
	IsActive    bool   `gorm:"not null;default:true"             json:"is_active"`
	BaseModel
}

func (Task) TableName() string { return "tasks" }

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	newID(&t.ID)
	return nil
}
