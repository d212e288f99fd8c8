package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/dto"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/service"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/response"
)

// VisitorHandler public intake form and its follow-up list
type VisitorHandler struct {
	visitorSvc service.VisitorService
}

// NewVisitorHandler creates a VisitorHandler
func NewVisitorHandler(visitorSvc service.VisitorService) *VisitorHandler {
	return &VisitorHandler{visitorSvc: visitorSvc}
}

// Submit public, no session
// POST /api/v1/visitors
func (h *VisitorHandler) Submit(c *gin.Context) {
	var req dto.SubmitVisitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	v, err := h.visitorSvc.Submit(c.Request.Context(), &req)
	if err != nil {
		h.handleVisitorError(c, err)
		return
	}
	response.Created(c, v)
}

// GetVisitor GET /api/v1/visitors/:id
func (h *VisitorHandler) GetVisitor(c *gin.Context) {
	v, err := h.visitorSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleVisitorError(c, err)
		return
	}
	response.OK(c, v)
}

// ListVisitors GET /api/v1/visitors?status=
func (h *VisitorHandler) ListVisitors(c *gin.Context) {
	var req dto.VisitorListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, total, err := h.visitorSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleVisitorError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

func (h *VisitorHandler) handleVisitorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVisitorNotFound):
		response.NotFound(c, 16001, "Visitante não encontrado")
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 16002, "Data da primeira visita inválida")
	default:
		response.InternalError(c)
	}
}
