package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/dto"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/service"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/response"
)

// AuthHandler login and session endpoints
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, 11001, "E-mail ou senha incorretos")
		case errors.Is(err, service.ErrMemberNotApproved):
			response.Forbidden(c, 11002, "Seu cadastro ainda não foi aprovado")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Me current member and capabilities
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	me, err := h.authSvc.Me(c.Request.Context(), sess)
	if err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			response.NotFound(c, 12001, "Membro não encontrado")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, me)
}
