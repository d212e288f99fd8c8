package model

import (
	"time"

	"gorm.io/gorm"
)

// Event church event, table events
type Event struct {
	ID          string    `gorm:"type:uuid;primaryKey"       json:"id"`
	Name        string    `gorm:"type:varchar(200);not null" json:"name"`
	Description string    `gorm:"type:text"                  json:"description,omitempty"`
	EventDate   time.Time `gorm:"not null;index"             json:"event_date"`
	Location    string    `gorm:"type:varchar(200)"          json:"location,omitempty"`
	BaseModel

	Assignments []EventAssignment `gorm:"foreignKey:EventID" json:"assignments,omitempty"`
}

func (Event) TableName() string { return "events" }

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	newID(&e.ID)
	return nil
}
