package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cleytonmendest/viva-esperanca-sub000/internal/authz"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/jwt"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/response"
)

// Context keys set by JWTAuth
const (
	CtxMemberID = "member_id"
	CtxRole     = "role"
)

// JWTAuth verifies the bearer access token and puts the session claims on
// the context.
func JWTAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "Cabeçalho de autenticação ausente")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "Cabeçalho de autenticação inválido")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Sessão inválida ou expirada")
			c.Abort()
			return
		}

		c.Set(CtxMemberID, claims.MemberID)
		c.Set(CtxRole, claims.Role)

		c.Next()
	}
}

// RequireCapability rejects sessions whose role lacks cap
func RequireCapability(cap authz.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(CtxRole)
		if !exists {
			response.Unauthorized(c, 10002, "Não autenticado")
			c.Abort()
			return
		}

		r, _ := role.(string)
		if !authz.Can(r, cap) {
			response.Forbidden(c, 10003, "Você não tem permissão para esta ação")
			c.Abort()
			return
		}

		c.Next()
	}
}
