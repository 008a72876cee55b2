package routes

import (
	"net/http"
	"time"

	"github.com/damoang/mediawall/internal/common"
	"github.com/damoang/mediawall/internal/handler"
	"github.com/damoang/mediawall/internal/middleware"
	"github.com/damoang/mediawall/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Admin   *handler.AdminHandler
	Media   *handler.MediaHandler
	Comment *handler.CommentHandler
	WS      *handler.WSHandler
}

// Setup configures all API routes. submitLimit guards public submissions
// and may be nil.
func Setup(router *gin.Engine, h Handlers, sessions service.SessionService, submitLimit gin.HandlerFunc) {
	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "mediawall",
			"time":    time.Now().Unix(),
		})
	})

	submit := []gin.HandlerFunc{}
	if submitLimit != nil {
		submit = append(submit, submitLimit)
	}

	// Public feed
	api := router.Group("/api")
	media := api.Group("/media")
	media.GET("", h.Media.ListFeed)
	media.GET("/:id", h.Media.GetMedia)
	media.POST("", append(submit, h.Media.Upload)...)
	media.GET("/:id/comments", h.Comment.ListComments)
	media.POST("/:id/comments", append(submit, h.Comment.CreateComment)...)

	// Admin session (no session required)
	admin := api.Group("/admin")
	admin.POST("/login", h.Auth.Login)
	admin.POST("/logout", h.Auth.Logout)

	// Moderation (admin session required)
	protected := admin.Group("", middleware.RequireAdminSession(sessions))
	protected.GET("/session", h.Auth.Session)
	protected.GET("/actions", h.Admin.ListActions)
	protected.GET("/media", h.Admin.ListMedia)
	protected.GET("/comments", h.Admin.ListComments)
	protected.POST("/:kind/bulk", h.Admin.Bulk)
	protected.POST("/:kind/:id/:action", h.Admin.Transition)

	// Realtime feed
	if h.WS != nil {
		router.GET("/ws/feed", h.WS.Connect)
	}

	router.NoRoute(func(c *gin.Context) {
		common.ErrorResponse(c, http.StatusNotFound, "Not found", nil)
	})
}
