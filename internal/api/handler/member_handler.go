package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/dto"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/service"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/response"
)

// MemberHandler member directory endpoints
type MemberHandler struct {
	memberSvc service.MemberService
}

// NewMemberHandler creates a MemberHandler
func NewMemberHandler(memberSvc service.MemberService) *MemberHandler {
	return &MemberHandler{memberSvc: memberSvc}
}

// CreateMember POST /api/v1/members
func (h *MemberHandler) CreateMember(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	var req dto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	member, err := h.memberSvc.Create(c.Request.Context(), sess, &req)
	if err != nil {
		h.handleMemberError(c, err)
		return
	}
	response.Created(c, member)
}

// GetMember GET /api/v1/members/:id
func (h *MemberHandler) GetMember(c *gin.Context) {
	member, err := h.memberSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleMemberError(c, err)
		return
	}
	response.OK(c, member)
}

// ListMembers GET /api/v1/members?status=&role=&keyword=
func (h *MemberHandler) ListMembers(c *gin.Context) {
	var req dto.MemberListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	members, total, err := h.memberSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleMemberError(c, err)
		return
	}
	response.OKPage(c, members, total, req.GetPage(), req.GetPageSize())
}

// UpdateMember optimistic: the body carries the version it was read at
// PUT /api/v1/members/:id
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	member, err := h.memberSvc.Update(c.Request.Context(), sess, c.Param("id"), &req)
	if err != nil {
		h.handleMemberError(c, err)
		return
	}
	response.OK(c, member)
}

// DeleteMember DELETE /api/v1/members/:id
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	if err := h.memberSvc.Delete(c.Request.Context(), sess, c.Param("id")); err != nil {
		h.handleMemberError(c, err)
		return
	}
	response.OK(c, nil)
}

// ApproveMember POST /api/v1/members/:id/approve
func (h *MemberHandler) ApproveMember(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	member, err := h.memberSvc.Approve(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		h.handleMemberError(c, err)
		return
	}
	response.OK(c, member)
}

func (h *MemberHandler) handleMemberError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMemberNotFound):
		response.NotFound(c, 12001, "Membro não encontrado")
	case errors.Is(err, service.ErrEmailTaken):
		response.Conflict(c, 12002, "Este e-mail já está cadastrado")
	case errors.Is(err, service.ErrMemberVersionConflict):
		response.Conflict(c, 12003, "O cadastro foi alterado por outra pessoa, recarregue e tente novamente")
	case errors.Is(err, service.ErrMemberAlreadyApproved):
		response.BadRequest(c, 12004, "Membro já aprovado")
	case errors.Is(err, service.ErrCannotDeleteSelf):
		response.BadRequest(c, 12005, "Você não pode remover o próprio cadastro")
	default:
		response.InternalError(c)
	}
}
