package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/damoang/mediawall/internal/domain"
	"github.com/stretchr/testify/mock"
)

// --- Mock MediaRepository ---

type mockMediaRepo struct {
	mock.Mock
}

func (m *mockMediaRepo) Create(ctx context.Context, media *domain.Media) error {
	return m.Called(ctx, media).Error(0)
}

func (m *mockMediaRepo) FindByID(ctx context.Context, id string) (*domain.Media, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Media), args.Error(1)
}

func (m *mockMediaRepo) ListVisible(ctx context.Context, offset, limit int) ([]*domain.Media, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Media), args.Error(1)
}

func (m *mockMediaRepo) List(ctx context.Context, filter domain.Filter) ([]*domain.Media, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Media), args.Error(1)
}

func (m *mockMediaRepo) UpdateFlags(ctx context.Context, id string, update domain.FlagUpdate) error {
	return m.Called(ctx, id, update).Error(0)
}

func (m *mockMediaRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// --- Mock CommentRepository ---

type mockCommentRepo struct {
	mock.Mock
}

func (m *mockCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *mockCommentRepo) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *mockCommentRepo) ListVisibleByMedia(ctx context.Context, mediaID string) ([]*domain.Comment, error) {
	args := m.Called(ctx, mediaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Comment), args.Error(1)
}

func (m *mockCommentRepo) List(ctx context.Context, filter domain.Filter) ([]*domain.Comment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Comment), args.Error(1)
}

func (m *mockCommentRepo) UpdateFlags(ctx context.Context, id string, update domain.FlagUpdate) error {
	return m.Called(ctx, id, update).Error(0)
}

// --- Mock ModerationActionRepository ---

type mockAuditRepo struct {
	mock.Mock
}

func (m *mockAuditRepo) Create(ctx context.Context, action *domain.ModerationAction) error {
	return m.Called(ctx, action).Error(0)
}

func (m *mockAuditRepo) ListRecent(ctx context.Context, limit int) ([]*domain.ModerationAction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ModerationAction), args.Error(1)
}

// --- Mock AdminUserRepository ---

type mockAdminRepo struct {
	mock.Mock
}

func (m *mockAdminRepo) FindByID(ctx context.Context, id string) (*domain.AdminUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminUser), args.Error(1)
}

func (m *mockAdminRepo) FindByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminUser), args.Error(1)
}

func (m *mockAdminRepo) Create(ctx context.Context, admin *domain.AdminUser) error {
	return m.Called(ctx, admin).Error(0)
}

// --- Mock ObjectStore ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	return m.Called(ctx, key, body, size, contentType).Error(0)
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockStore) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

// --- Mock TokenManager ---

type mockTokens struct {
	mock.Mock
}

func (m *mockTokens) Issue(adminID string) (string, time.Time, error) {
	args := m.Called(adminID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockTokens) Verify(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

// --- Recording Notifier ---

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
}

func (n *recordingNotifier) Publish(_ context.Context, event domain.ChangeEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []domain.ChangeEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.ChangeEvent(nil), n.events...)
}
