package model

import "gorm.io/gorm"

// Member roles
const (
	RoleAdmin  = "admin"
	RoleLeader = "leader"
	RoleMember = "member"
)

// Member statuses
const (
	MemberStatusPending  = "pendente"
	MemberStatusApproved = "aprovado"
	MemberStatusInactive = "inativo"
)

// Member church member, table members
type Member struct {
	ID           string `gorm:"type:uuid;primaryKey"                         json:"id"`
	FullName     string `gorm:"type:varchar(150);not null"                   json:"full_name"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"       json:"email"`
	Phone        string `gorm:"type:varchar(30)"                             json:"phone,omitempty"`
	Role         string `gorm:"type:varchar(20);not null;default:'member'"   json:"role"`
	Status       string `gorm:"type:varchar(20);not null;default:'pendente'" json:"status"`
	PasswordHash string `gorm:"type:varchar(255)"                            json:"-"`
	VersionedModel
}

func (Member) TableName() string { return "members" }

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	newID(&m.ID)
	return nil
}
