package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/dto"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/model"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/service"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/response"
)

// AuditHandler read side of the audit trail
type AuditHandler struct {
	auditSvc service.AuditService
}

// NewAuditHandler creates an AuditHandler
func NewAuditHandler(auditSvc service.AuditService) *AuditHandler {
	return &AuditHandler{auditSvc: auditSvc}
}

// ListAuditLogs newest first
// GET /api/v1/audit-logs?action_type=&resource_type=&resource_id=&user_id=&from=&to=
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	var req dto.AuditLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	logs, total, err := h.auditSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleAuditError(c, err)
		return
	}
	response.OKPage(c, logs, total, req.GetPage(), req.GetPageSize())
}

// shared with the export endpoint, which takes the same filters
func handleAuditError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrUnknownAction):
		response.BadRequest(c, 17001, "Tipo de ação desconhecido")
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 17002, "Intervalo de datas inválido")
	default:
		response.InternalError(c)
	}
}
