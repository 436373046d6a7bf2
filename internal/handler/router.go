package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"meeting-management-api/internal/middleware"
)

// Router assembles the gin engine: public auth routes behind the rate
// limiter, everything else behind bearer auth, plus health, metrics and
// the static uploads directory.
func (h *Handler) Router(log *slog.Logger, rl *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/uploads", h.uploads.Dir())

	authGroup := r.Group("/auth", middleware.RateLimit(rl))
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	authed := r.Group("/", middleware.Auth(h.secret))
	{
		authed.POST("/meetings", h.CreateMeeting)
		authed.GET("/meetings", h.ListMeetings)
		authed.GET("/meetings/:id", h.GetMeeting)
		authed.PUT("/meetings/:id", h.UpdateMeeting)
		authed.PATCH("/meetings/:id/cancel", h.CancelMeeting)
		authed.DELETE("/meetings/:id", h.DeleteMeeting)
		authed.GET("/users", h.ListUsers)
	}

	return r
}
