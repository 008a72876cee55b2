package handler

import (
	"errors"
	"net/http"

	"github.com/damoang/mediawall/internal/common"
	"github.com/damoang/mediawall/internal/middleware"
	"github.com/damoang/mediawall/internal/service"
	pkglogger "github.com/damoang/mediawall/pkg/logger"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles admin login, logout and session lookup
type AuthHandler struct {
	sessions service.SessionService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(sessions service.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// LoginRequest login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/admin/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Username and password are required", err)
		return
	}

	admin, err := h.sessions.Authenticate(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, common.ErrInvalidCredentials) {
		common.ErrorResponse(c, http.StatusUnauthorized, "Invalid username or password", nil)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Login failed", err)
		return
	}

	cookie, err := h.sessions.CreateSession(admin.ID)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Login failed", err)
		return
	}
	http.SetCookie(c.Writer, cookie)

	pkglogger.GetLogger().Info().Str("admin_id", admin.ID).Str("ip", c.ClientIP()).Msg("admin logged in")
	common.SuccessResponse(c, gin.H{
		"success": true,
		"admin":   admin,
	}, nil)
}

// Logout handles POST /api/admin/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	http.SetCookie(c.Writer, h.sessions.DestroySession())
	common.SuccessResponse(c, gin.H{"success": true}, nil)
}

// Session handles GET /api/admin/session (requires admin session)
func (h *AuthHandler) Session(c *gin.Context) {
	admin := middleware.GetAdmin(c)
	if admin == nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}
	common.SuccessResponse(c, admin, nil)
}
