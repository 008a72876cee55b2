package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/damoang/mediawall/internal/common"
	"github.com/damoang/mediawall/internal/domain"
	"github.com/damoang/mediawall/internal/repository"
	pkglogger "github.com/damoang/mediawall/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password provisioning accepts.
const MinPasswordLength = 6

// AdminService provisions administrator accounts.
type AdminService interface {
	CreateAdmin(ctx context.Context, username, password string) (*domain.AdminUser, error)
}

type adminService struct {
	adminRepo repository.AdminUserRepository
}

func NewAdminService(adminRepo repository.AdminUserRepository) AdminService {
	return &adminService{adminRepo: adminRepo}
}

func (s *adminService) CreateAdmin(ctx context.Context, username, password string) (*domain.AdminUser, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", common.ErrInvalidInput)
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrInvalidInput, MinPasswordLength)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	admin := &domain.AdminUser{Username: username, PasswordHash: hash}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}

	pkglogger.GetLogger().Info().
		Str("admin_id", admin.ID).
		Str("username", admin.Username).
		Msg("admin user created")
	return admin, nil
}

// HashPassword returns a salted bcrypt hash at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
