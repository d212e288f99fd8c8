package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cleytonmendest/viva-esperanca-sub000/config"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/api/handler"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/api/middleware"
	"github.com/cleytonmendest/viva-esperanca-sub000/internal/authz"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/jwt"
	"github.com/cleytonmendest/viva-esperanca-sub000/pkg/metrics"
)

const maxBodyBytes = 1 << 20

// Setup builds the Gin engine. rl may be nil, public endpoints then run
// without throttling.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rl middleware.RateLimiter, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))
	r.Use(middleware.Metrics(m))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if cfg.Metrics.Enabled {
		r.GET("/metrics", m.Handler())
	}

	publicLimit := middleware.RateLimit(rl, cfg.RateLimit.PublicRequests, cfg.RateLimit.PublicWindow, logger)
	can := middleware.RequireCapability

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// public
		v1.POST("/auth/login", publicLimit, h.Auth.Login)
		v1.POST("/visitors", publicLimit, h.Visitor.Submit)

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr))
		{
			authorized.GET("/auth/me", h.Auth.Me)

			events := authorized.Group("/events")
			{
				events.GET("", can(authz.EventRead), h.Event.ListEvents)
				events.GET("/:id", can(authz.EventRead), h.Event.GetEvent)
				events.POST("", can(authz.EventManage), h.Event.CreateEvent)
				events.PUT("/:id", can(authz.EventManage), h.Event.UpdateEvent)
				events.DELETE("/:id", can(authz.EventManage), h.Event.DeleteEvent)
				events.GET("/:id/assignments", can(authz.EventRead), h.Assignment.ListByEvent)
				events.POST("/:id/assignments", can(authz.AssignmentManage), h.Assignment.AddToEvent)
			}

			tasks := authorized.Group("/tasks")
			{
				tasks.GET("", can(authz.EventRead), h.Task.ListTasks)
				tasks.GET("/:id", can(authz.EventRead), h.Task.GetTask)
				tasks.POST("", can(authz.TaskManage), h.Task.CreateTask)
				tasks.PUT("/:id", can(authz.TaskManage), h.Task.UpdateTask)
				tasks.DELETE("/:id", can(authz.TaskManage), h.Task.DeleteTask)
			}

			// the service re-checks ownership for status and removal
			assignments := authorized.Group("/assignments")
			{
				assignments.GET("/me", can(authz.TaskClaim), h.Assignment.ListMine)
				assignments.GET("/me/calendar.ics", can(authz.TaskClaim), h.Export.MyCalendar)
				assignments.POST("/:id/claim", can(authz.TaskClaim), h.Assignment.Claim)
				assignments.PUT("/:id/member", can(authz.AssignmentManage), h.Assignment.AssignMember)
				assignments.PUT("/:id/status", can(authz.AssignmentRespond), h.Assignment.UpdateStatus)
				assignments.DELETE("/:id", can(authz.AssignmentManage), h.Assignment.Remove)
			}

			members := authorized.Group("/members")
			{
				members.GET("", can(authz.MemberApprove), h.Member.ListMembers)
				members.GET("/:id", can(authz.MemberApprove), h.Member.GetMember)
				members.POST("", can(authz.MemberManage), h.Member.CreateMember)
				members.PUT("/:id", can(authz.MemberManage), h.Member.UpdateMember)
				members.DELETE("/:id", can(authz.MemberManage), h.Member.DeleteMember)
				members.POST("/:id/approve", can(authz.MemberApprove), h.Member.ApproveMember)
			}

			visitors := authorized.Group("/visitors")
			{
				visitors.GET("", can(authz.VisitorRead), h.Visitor.ListVisitors)
				visitors.GET("/:id", can(authz.VisitorRead), h.Visitor.GetVisitor)
			}

			audit := authorized.Group("/audit-logs")
			{
				audit.GET("", can(authz.AuditRead), h.Audit.ListAuditLogs)
				audit.GET("/export", can(authz.AuditRead), h.Export.ExportAuditLogs)
			}
		}
	}

	return r
}
