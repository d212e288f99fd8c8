package model

import (
	"time"

	"gorm.io/gorm"
)

// Visitor statuses
const (
	VisitorStatusNew       = "novo"
	VisitorStatusContacted = "contatado"
)

// Visitor intake form submission, table visitors
type Visitor struct {
	ID             string     `gorm:"type:uuid;primaryKey"                     json:"id"`
	FullName       string     `gorm:"type:varchar(150);not null"               json:"full_name"`
	Email          string     `gorm:"type:varchar(255)"                        json:"email,omitempty"`
	Phone          string     `gorm:"type:varchar(30)"                         json:"phone,omitempty"`
	HowHeard       string     `gorm:"type:varchar(100)"                        json:"how_heard,omitempty"`
	PrayerRequest  string     `gorm:"type:text"                                json:"prayer_request,omitempty"`
	WantsContact   bool       `gorm:"not null;default:false"                   json:"wants_contact"`
	FirstVisitDate *time.Time `json:"first_visit_date,omitempty"`
	Status         string     `gorm:"type:varchar(20);not null;default:'novo'" json:"status"`
	CreatedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

func (Visitor) TableName() string { return "visitors" }

func (v *Visitor) BeforeCreate(tx *gorm.DB) error {
	newID(&v.ID)
	return nil
}
