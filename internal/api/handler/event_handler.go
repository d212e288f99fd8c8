package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/dto"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/service"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/response"
)

// EventHandler event endpoints
type EventHandler struct {
	eventSvc service.EventService
}

// NewEventHandler creates an EventHandler
func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

// CreateEvent POST /api/v1/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	event, err := h.eventSvc.Create(c.Request.Context(), sess, &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}
	response.Created(c, event)
}

// GetEvent event with its slots
// GET /api/v1/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.eventSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleEventError(c, err)
		return
	}
	response.OK(c, event)
}

// ListEvents GET /api/v1/events?upcoming=true&from=&to=
func (h *EventHandler) ListEvents(c *gin.Context) {
	var req dto.EventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	events, total, err := h.eventSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}
	response.OKPage(c, events, total, req.GetPage(), req.GetPageSize())
}

// UpdateEvent PUT /api/v1/events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	event, err := h.eventSvc.Update(c.Request.Context(), sess, c.Param("id"), &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}
	response.OK(c, event)
}

// DeleteEvent removes the event and its slots
// DELETE /api/v1/events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	if err := h.eventSvc.Delete(c.Request.Context(), sess, c.Param("id")); err != nil {
		h.handleEventError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *EventHandler) handleEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 13001, "Evento não encontrado")
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 13002, "Intervalo de datas inválido")
	default:
		response.InternalError(c)
	}
}
