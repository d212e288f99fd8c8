package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/api/middleware"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/service"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/response"
)

// MustGetSession builds the caller's session from the values JWTAuth put on
// the context. When they are missing it writes a 401 and returns false;
// callers return right away.
func MustGetSession(c *gin.Context) (*service.Session, bool) {
	memberID := c.GetString(middleware.CtxMemberID)
	role := c.GetString(middleware.CtxRole)
	if memberID == "" || role == "" {
		response.Unauthorized(c, 10002, "Não autenticado")
		return nil, false
	}
	return &service.Session{MemberID: memberID, Role: role}, true
}

// bindError 400 with the first translated validation message
func bindError(c *gin.Context, err error) {
	response.BadRequest(c, 10001, validateMessage(err))
}
