package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/service"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/validate"
)

// Handler aggregate of every handler
type Handler struct {
	Auth       *AuthHandler
	Member     *MemberHandler
	Event      *EventHandler
	Task       *TaskHandler
	Assignment *AssignmentHandler
	Audit      *AuditHandler
	Visitor    *VisitorHandler
	Export     *ExportHandler
}

// NewHandler builds every handler on svc
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Member:     NewMemberHandler(svc.Member),
		Event:      NewEventHandler(svc.Event),
		Task:       NewTaskHandler(svc.Task),
		Assignment: NewAssignmentHandler(svc.Assignment),
		Audit:      NewAuditHandler(svc.Audit),
		Visitor:    NewVisitorHandler(svc.Visitor),
		Export:     NewExportHandler(svc.Export),
	}
}

// validateMessage translated message for validation failures; malformed
// bodies get a generic one
func validateMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return validate.Message(err)
	}
	return "Parâmetros inválidos"
}
