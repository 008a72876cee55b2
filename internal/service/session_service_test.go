package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/damoang/mediawall/internal/common"
	"github.com/damoang/mediawall/internal/domain"
	"github.com/damoang/mediawall/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAdmin(t *testing.T, password string) *domain.AdminUser {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.AdminUser{ID: "admin-1", Username: "root", PasswordHash: string(hash)}
}

func TestAuthenticate_Success(t *testing.T) {
	repo := new(mockAdminRepo)
	admin := newAdmin(t, "hunter22")
	repo.On("FindByUsername", mock.Anything, "root").Return(admin, nil)

	svc := NewSessionService(repo, jwt.NewManager("s", time.Hour), false)
	got, err := svc.Authenticate(context.Background(), "root", "hunter22")

	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)
	repo.AssertExpectations(t)
}

func TestAuthenticate_UnknownUserAndWrongPasswordAreIndistinguishable(t *testing.T) {
	repo := new(mockAdminRepo)
	repo.On("FindByUsername", mock.Anything, "root").Return(newAdmin(t, "hunter22"), nil)
	repo.On("FindByUsername", mock.Anything, "ghost").
		Return(nil, fmt.Errorf("admin ghost: %w", common.ErrNotFound))

	svc := NewSessionService(repo, jwt.NewManager("s", time.Hour), false)

	_, wrongPassword := svc.Authenticate(context.Background(), "root", "nope")
	_, unknownUser := svc.Authenticate(context.Background(), "ghost", "hunter22")

	assert.ErrorIs(t, wrongPassword, common.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, common.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestAuthenticate_StoreFailureSurfaces(t *testing.T) {
	repo := new(mockAdminRepo)
	repo.On("FindByUsername", mock.Anything, "root").Return(nil, errors.New("connection refused"))

	svc := NewSessionService(repo, jwt.NewManager("s", time.Hour), false)
	_, err := svc.Authenticate(context.Background(), "root", "hunter22")

	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCreateSession_CookieAttributes(t *testing.T) {
	svc := NewSessionService(new(mockAdminRepo), jwt.NewManager("s", 7*24*time.Hour), true)

	cookie, err := svc.CreateSession("admin-1")
	require.NoError(t, err)

	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.NotEmpty(t, cookie.Value)
	assert.NotEqual(t, "admin-1", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), cookie.Expires, 5*time.Second)
	assert.InDelta(t, (7 * 24 * time.Hour).Seconds(), float64(cookie.MaxAge), 5)
}

func TestCreateSession_NotSecureOutsideProduction(t *testing.T) {
	svc := NewSessionService(new(mockAdminRepo), jwt.NewManager("s", time.Hour), false)
	cookie, err := svc.CreateSession("admin-1")
	require.NoError(t, err)
	assert.False(t, cookie.Secure)
}

func TestCreateSession_SigningFailure(t *testing.T) {
	tokens := new(mockTokens)
	tokens.On("Issue", "admin-1").Return("", time.Time{}, errors.New("boom"))

	svc := NewSessionService(new(mockAdminRepo), tokens, false)
	_, err := svc.CreateSession("admin-1")
	assert.Error(t, err)
}

func TestDestroySession_ExpiresCookie(t *testing.T) {
	svc := NewSessionService(new(mockAdminRepo), jwt.NewManager("s", time.Hour), false)

	first := svc.DestroySession()
	second := svc.DestroySession()

	assert.Equal(t, SessionCookieName, first.Name)
	assert.Empty(t, first.Value)
	assert.Equal(t, -1, first.MaxAge)
	assert.Equal(t, first, second)
}

func TestGetSession_Absent(t *testing.T) {
	svc := NewSessionService(new(mockAdminRepo), jwt.NewManager("s", time.Hour), false)

	res := svc.GetSession(context.Background(), "")

	assert.Equal(t, SessionAbsent, res.Status)
	assert.False(t, res.Valid())
	assert.Nil(t, res.Admin)
}

func TestGetSession_Valid(t *testing.T) {
	repo := new(mockAdminRepo)
	admin := &domain.AdminUser{ID: "admin-1", Username: "root"}
	repo.On("FindByID", mock.Anything, "admin-1").Return(admin, nil)

	svc := NewSessionService(repo, jwt.NewManager("s", time.Hour), false)
	cookie, err := svc.CreateSession("admin-1")
	require.NoError(t, err)

	res := svc.GetSession(context.Background(), cookie.Value)
	assert.True(t, res.Valid())
	assert.Equal(t, admin, res.Admin)
}

func TestGetSession_FailuresAreLookupFailed(t *testing.T) {
	tokens := jwt.NewManager("s", time.Hour)
	valid, _, err := tokens.Issue("deleted-admin")
	require.NoError(t, err)
	storeDown, _, err := tokens.Issue("admin-2")
	require.NoError(t, err)
	forged, _, err := jwt.NewManager("other", time.Hour).Issue("admin-1")
	require.NoError(t, err)

	repo := new(mockAdminRepo)
	repo.On("FindByID", mock.Anything, "deleted-admin").
		Return(nil, fmt.Errorf("admin deleted-admin: %w", common.ErrNotFound))
	repo.On("FindByID", mock.Anything, "admin-2").Return(nil, errors.New("connection refused"))

	svc := NewSessionService(repo, tokens, false)

	for name, value := range map[string]string{
		"malformed":     "garbage",
		"forged":        forged,
		"unknown admin": valid,
		"store failure": storeDown,
	} {
		t.Run(name, func(t *testing.T) {
			res := svc.GetSession(context.Background(), value)
			assert.Equal(t, SessionLookupFailed, res.Status)
			assert.False(t, res.Valid())
			assert.Nil(t, res.Admin)
			assert.Error(t, res.Reason)
		})
	}
}
