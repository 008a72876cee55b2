package middleware

import (
	"net/http"

	"github.com/damoang/mediawall/internal/common"
	"github.com/damoang/mediawall/internal/domain"
	"github.com/damoang/mediawall/internal/service"
	"github.com/damoang/mediawall/pkg/logger"
	"github.com/gin-gonic/gin"
)

const adminKey = "admin"

// RequireAdminSession lets a request through only with a valid admin session
// cookie. Absent and failed lookups are both answered with 401.
func RequireAdminSession(sessions service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, _ := c.Cookie(service.SessionCookieName)
		res := sessions.GetSession(c.Request.Context(), value)

		if !res.Valid() {
			sessionRejectedTotal.WithLabelValues(res.Status.String()).Inc()
			if res.Status == service.SessionLookupFailed {
				logger.GetLogger().Warn().
					Err(res.Reason).
					Str("request_id", GetRequestID(c)).
					Str("client_ip", c.ClientIP()).
					Msg("admin session rejected")
			}
			common.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized", nil)
			c.Abort()
			return
		}

		c.Set(adminKey, res.Admin)
		c.Next()
	}
}

// GetAdmin returns the administrator RequireAdminSession admitted, or nil.
func GetAdmin(c *gin.Context) *domain.AdminUser {
	if v, ok := c.Get(adminKey); ok {
		if admin, ok := v.(*domain.AdminUser); ok {
			return admin
		}
	}
	return nil
}

// GetAdminID returns the admitted administrator's id, or "".
func GetAdminID(c *gin.Context) string {
	if admin := GetAdmin(c); admin != nil {
		return admin.ID
	}
	return ""
}
