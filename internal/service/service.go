package service

import (
	"go.uber.org/zap"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/repository"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/jwt"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/metrics"
)

// Service aggregate of every service
type Service struct {
	Auth       AuthService
	Member     MemberService
	Event      EventService
	Task       TaskService
	Assignment AssignmentService
	Audit      AuditService
	Visitor    VisitorService
	Export     ExportService

	// Recorder is shared by every mutating service
	Recorder AuditRecorder
}

// NewService builds the service layer. publisher may be nil when audit
// fan-out is disabled.
func NewService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	publisher AuditPublisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	recorder := NewAuditRecorder(repo, publisher, m, logger)
	return &Service{
		Auth:       NewAuthService(repo, jwtMgr, logger),
		Member:     NewMemberService(repo, recorder, logger),
		Event:      NewEventService(repo, recorder, logger),
		Task:       NewTaskService(repo, recorder, logger),
		Assignment: NewAssignmentService(repo, recorder, m, logger),
		Audit:      NewAuditService(repo, logger),
		Visitor:    NewVisitorService(repo, recorder, logger),
		Export:     NewExportService(repo, logger),
		Recorder:   recorder,
	}
}
