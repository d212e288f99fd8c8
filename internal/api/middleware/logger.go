package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// probes hit these every few seconds
var quietPaths = map[string]bool{"/health": true, "/metrics": true}

// Logger one structured line per request. Query strings are left out: the
// public visitor form and login never use them, and list filters may carry
// member names.
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if quietPaths[c.Request.URL.Path] && status < 400 {
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if memberID := c.GetString(CtxMemberID); memberID != "" {
			fields = append(fields, zap.String("member_id", memberID))
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			fields = append(fields, zap.String("errors", errs.String()))
		}

		switch {
		case status >= 500:
			logger.Error("falha ao processar requisição", fields...)
		case status >= 400:
			logger.Warn("requisição rejeitada", fields...)
		default:
			logger.Info("requisição concluída", fields...)
		}
	}
}
