package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/dto"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/service"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/response"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler file downloads
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportAuditLogs audit trail as .xlsx, same filters as the list
// GET /api/v1/audit-logs/export
func (h *ExportHandler) ExportAuditLogs(c *gin.Context) {
	var req dto.AuditLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	buf, filename, err := h.exportSvc.ExportAuditLogs(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrExportGenerateFail) {
			response.InternalError(c)
			return
		}
		handleAuditError(c, err)
		return
	}

	response.File(c, filename, mimeXLSX, buf.Bytes())
}

// MyCalendar caller's slots as iCalendar
// GET /api/v1/assignments/me/calendar.ics
func (h *ExportHandler) MyCalendar(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	data, filename, err := h.exportSvc.MemberCalendar(c.Request.Context(), sess)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.File(c, filename, mimeICS, data)
}
