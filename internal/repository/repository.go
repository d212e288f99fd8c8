package repository

import "gorm.io/gorm"

// Repository aggregate of every repository
type Repository struct {
	Member     MemberRepository
	Event      EventRepository
	Task       TaskRepository
	Assignment AssignmentRepository
	AuditLog   AuditLogRepository
	Visitor    VisitorRepository
}

// NewRepository builds every repository on db
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Member:     NewMemberRepo(db),
		Event:      NewEventRepo(db),
		Task:       NewTaskRepo(db),
		Assignment: NewAssignmentRepo(db),
		AuditLog:   NewAuditLogRepo(db),
		Visitor:    NewVisitorRepo(db),
	}
}
