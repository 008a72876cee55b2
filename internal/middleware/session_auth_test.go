package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/damoang/mediawall/internal/domain"
	"github.com/damoang/mediawall/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubSessions struct {
	service.SessionService
	results map[string]service.SessionResult
	seen    []string
}

func (s *stubSessions) GetSession(_ context.Context, value string) service.SessionResult {
	s.seen = append(s.seen, value)
	if value == "" {
		return service.SessionResult{Status: service.SessionAbsent}
	}
	if r, ok := s.results[value]; ok {
		return r
	}
	return service.SessionResult{Status: service.SessionLookupFailed, Reason: errors.New("invalid token")}
}

func newGatedRouter(sessions service.SessionService, reached *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequireAdminSession(sessions))
	r.POST("/api/admin/media/:id/approve", func(c *gin.Context) {
		*reached = true
		c.JSON(http.StatusOK, gin.H{"admin": GetAdminID(c)})
	})
	return r
}

func TestRequireAdminSession_Valid(t *testing.T) {
	admin := &domain.AdminUser{ID: "admin-1", Username: "root"}
	sessions := &stubSessions{results: map[string]service.SessionResult{
		"good": {Status: service.SessionValid, Admin: admin},
	}}
	var reached bool
	r := newGatedRouter(sessions, &reached)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/media/m1/approve", nil)
	req.AddCookie(&http.Cookie{Name: service.SessionCookieName, Value: "good"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reached)
	assert.JSONEq(t, `{"admin":"admin-1"}`, w.Body.String())
}

func TestRequireAdminSession_DeniesWithoutPartialExecution(t *testing.T) {
	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{"absent", nil},
		{"malformed", &http.Cookie{Name: service.SessionCookieName, Value: "garbage"}},
		{"other cookie", &http.Cookie{Name: "session", Value: "good"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reached bool
			r := newGatedRouter(&stubSessions{}, &reached)

			req := httptest.NewRequest(http.MethodPost, "/api/admin/media/m1/approve", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.False(t, reached)
			assert.Contains(t, w.Body.String(), `"UNAUTHORIZED"`)
		})
	}
}

func TestGetAdmin_Unset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, GetAdmin(c))
	assert.Empty(t, GetAdminID(c))
}
