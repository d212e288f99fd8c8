package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/dto"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/service"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/response"
)

// user-facing outcomes of slot operations
const (
	msgClaimOK       = "Tarefa assumida com sucesso!"
	msgAssignOK      = "Tarefa atribuída com sucesso!"
	msgStatusOK      = "Status atualizado com sucesso!"
	msgRemoveOK      = "Atribuição removida com sucesso!"
	msgAddToEventOK  = "Tarefa adicionada ao evento!"
	msgClaimFail     = "Erro ao assumir tarefa"
	msgAssignFail    = "Erro ao atribuir tarefa"
	msgStatusFail    = "Erro ao atualizar status"
	msgRemoveFail    = "Erro ao remover atribuição"
	msgAddToEventErr = "Erro ao adicionar tarefa ao evento"
	msgAlreadyTaken  = "Esta tarefa já foi assumida por outro membro"
	msgPickMember    = "Selecione um membro"
)

// AssignmentHandler volunteer slot endpoints. Every mutation answers with
// an ActionResult, on failure too.
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler creates an AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// Claim caller takes an open slot
// POST /api/v1/assignments/:id/claim
func (h *AssignmentHandler) Claim(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	a, err := h.assignmentSvc.ClaimForSelf(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		h.fail(c, err, msgClaimFail)
		return
	}
	response.OK(c, dto.ActionResult{Success: true, Message: msgClaimOK, Assignment: a})
}

// AssignMember leader puts a member on a slot, pre-confirmed
// PUT /api/v1/assignments/:id/member
func (h *AssignmentHandler) AssignMember(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	var req dto.AssignMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// an empty member id is the common case here
		h.fail(c, service.ErrMemberRequired, msgAssignFail)
		return
	}

	a, err := h.assignmentSvc.LeaderAssign(c.Request.Context(), sess, c.Param("id"), req.MemberID)
	if err != nil {
		h.fail(c, err, msgAssignFail)
		return
	}
	response.OK(c, dto.ActionResult{Success: true, Message: msgAssignOK, Assignment: a})
}

// UpdateStatus confirm or refuse
// PUT /api/v1/assignments/:id/status
func (h *AssignmentHandler) UpdateStatus(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	var req dto.UpdateAssignmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, service.ErrInvalidAssignmentStatus, msgStatusFail)
		return
	}

	a, err := h.assignmentSvc.UpdateStatus(c.Request.Context(), sess, c.Param("id"), req.Status)
	if err != nil {
		h.fail(c, err, msgStatusFail)
		return
	}
	response.OK(c, dto.ActionResult{Success: true, Message: msgStatusOK, Assignment: a})
}

// Remove deletes a slot
// DELETE /api/v1/assignments/:id
func (h *AssignmentHandler) Remove(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	a, err := h.assignmentSvc.Remove(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		h.fail(c, err, msgRemoveFail)
		return
	}
	response.OK(c, dto.ActionResult{Success: true, Message: msgRemoveOK, Assignment: a})
}

// AddToEvent opens slots for a task; quantity defaults to the task's own
// POST /api/v1/events/:id/assignments
func (h *AssignmentHandler) AddToEvent(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	var req dto.AddToEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithData(c, http.StatusBadRequest, 10001, validateMessage(err),
			dto.ActionResult{Success: false, Message: msgAddToEventErr})
		return
	}

	eventID := c.Param("id")
	if req.Quantity == 1 {
		a, err := h.assignmentSvc.AddToEvent(c.Request.Context(), sess, eventID, req.TaskID)
		if err != nil {
			h.fail(c, err, msgAddToEventErr)
			return
		}
		response.Created(c, dto.ActionResult{Success: true, Message: msgAddToEventOK, Assignment: a})
		return
	}

	list, err := h.assignmentSvc.AddSlots(c.Request.Context(), sess, eventID, req.TaskID, req.Quantity)
	if err != nil {
		h.fail(c, err, msgAddToEventErr)
		return
	}
	response.Created(c, dto.ActionResult{Success: true, Message: msgAddToEventOK, Assignments: list})
}

// ListByEvent slots of one event
// GET /api/v1/events/:id/assignments
func (h *AssignmentHandler) ListByEvent(c *gin.Context) {
	list, err := h.assignmentSvc.ListByEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.NotFound(c, 13001, "Evento não encontrado")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// ListMine caller's slots, soonest event first
// GET /api/v1/assignments/me
func (h *AssignmentHandler) ListMine(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	list, err := h.assignmentSvc.ListMine(c.Request.Context(), sess)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// fail maps a service error to status, code and message; generic is the
// operation's message for persistence failures
func (h *AssignmentHandler) fail(c *gin.Context, err error, generic string) {
	status, code, msg := http.StatusInternalServerError, 50000, generic

	switch {
	case errors.Is(err, service.ErrAlreadyClaimed):
		status, code, msg = http.StatusConflict, 15001, msgAlreadyTaken
	case errors.Is(err, service.ErrMemberRequired):
		status, code, msg = http.StatusBadRequest, 15002, msgPickMember
	case errors.Is(err, service.ErrAssignmentNotFound):
		status, code, msg = http.StatusNotFound, 15003, "Atribuição não encontrada"
	case errors.Is(err, service.ErrInvalidAssignmentStatus):
		status, code, msg = http.StatusBadRequest, 15004, "Status inválido"
	case errors.Is(err, service.ErrAssignmentOpen):
		status, code, msg = http.StatusConflict, 15005, "Nenhum membro atribuído a esta tarefa"
	case errors.Is(err, service.ErrForbidden):
		status, code, msg = http.StatusForbidden, 10003, "Você não tem permissão para esta ação"
	case errors.Is(err, service.ErrEventNotFound):
		status, code, msg = http.StatusNotFound, 13001, "Evento não encontrado"
	case errors.Is(err, service.ErrTaskNotFound):
		status, code, msg = http.StatusNotFound, 14001, "Tarefa não encontrada"
	case errors.Is(err, service.ErrMemberNotFound):
		status, code, msg = http.StatusNotFound, 12001, "Membro não encontrado"
	}

	response.ErrorWithData(c, status, code, msg, dto.ActionResult{Success: false, Message: msg})
}
