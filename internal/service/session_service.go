package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/damoang/mediawall/internal/common"
	"github.com/damoang/mediawall/internal/domain"
	"github.com/damoang/mediawall/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// SessionCookieName is the cookie holding the signed admin session.
const SessionCookieName = "admin_session"

// SessionStatus tags the outcome of a session lookup.
type SessionStatus int

const (
	SessionAbsent SessionStatus = iota
	SessionValid
	SessionLookupFailed
)

func (s SessionStatus) String() string {
	switch s {
	case SessionValid:
		return "valid"
	case SessionLookupFailed:
		return "lookup_failed"
	default:
		return "absent"
	}
}

// SessionResult is Valid(Admin), Absent, or LookupFailed(Reason). Callers
// must deny access on anything but Valid.
type SessionResult struct {
	Status SessionStatus
	Admin  *domain.AdminUser
	Reason error
}

// Valid reports whether the session identifies an administrator.
func (r SessionResult) Valid() bool {
	return r.Status == SessionValid && r.Admin != nil
}

// TokenManager signs and verifies the admin id carried in the cookie.
type TokenManager interface {
	Issue(adminID string) (string, time.Time, error)
	Verify(token string) (string, error)
}

// SessionService authenticates administrators and manages their cookie.
type SessionService interface {
	// Authenticate returns common.ErrInvalidCredentials for an unknown
	// username and for a wrong password alike.
	Authenticate(ctx context.Context, username, password string) (*domain.AdminUser, error)
	CreateSession(adminID string) (*http.Cookie, error)
	DestroySession() *http.Cookie
	// GetSession never fails; problems are reported as LookupFailed.
	GetSession(ctx context.Context, cookieValue string) SessionResult
}

type sessionService struct {
	adminRepo repository.AdminUserRepository
	tokens    TokenManager
	secure    bool
}

// NewSessionService creates a SessionService. secure marks cookies Secure.
func NewSessionService(adminRepo repository.AdminUserRepository, tokens TokenManager, secure bool) SessionService {
	return &sessionService{
		adminRepo: adminRepo,
		tokens:    tokens,
		secure:    secure,
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// equalizeTiming burns one bcrypt comparison so unknown usernames cost the
// same as wrong passwords.
func equalizeTiming(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("mediawall-timing"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

func (s *sessionService) Authenticate(ctx context.Context, username, password string) (*domain.AdminUser, error) {
	admin, err := s.adminRepo.FindByUsername(ctx, username)
	if errors.Is(err, common.ErrNotFound) {
		equalizeTiming(password)
		return nil, common.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}
	return admin, nil
}

func (s *sessionService) CreateSession(adminID string) (*http.Cookie, error) {
	if adminID == "" {
		return nil, fmt.Errorf("%w: admin id is required", common.ErrInvalidInput)
	}
	token, expiresAt, err := s.tokens.Issue(adminID)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}

	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

func (s *sessionService) DestroySession() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *sessionService) GetSession(ctx context.Context, cookieValue string) SessionResult {
	if cookieValue == "" {
		return SessionResult{Status: SessionAbsent}
	}

	adminID, err := s.tokens.Verify(cookieValue)
	if err != nil {
		return SessionResult{Status: SessionLookupFailed, Reason: fmt.Errorf("verify session: %w", err)}
	}

	admin, err := s.adminRepo.FindByID(ctx, adminID)
	if err != nil {
		return SessionResult{Status: SessionLookupFailed, Reason: fmt.Errorf("lookup admin: %w", err)}
	}
	return SessionResult{Status: SessionValid, Admin: admin}
}
