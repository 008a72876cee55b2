package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/damoang/mediawall/internal/common"
	"github.com/damoang/mediawall/internal/domain"
	"github.com/damoang/mediawall/internal/repository"
)

// CreateCommentRequest is a public comment submission.
type CreateCommentRequest struct {
	MediaID       string
	Content       string
	CommenterName string
	CommenterIP   string
}

// CommentService serves and accepts public comments.
type CommentService interface {
	// ListForMedia returns the visible comments of a visible media item,
	// oldest first.
	ListForMedia(ctx context.Context, mediaID string) ([]*domain.Comment, error)
	Create(ctx context.Context, req CreateCommentRequest) (*domain.Comment, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	mediaRepo   repository.MediaRepository
	notifier    Notifier
}

// NewCommentService creates a CommentService. notifier may be nil.
func NewCommentService(commentRepo repository.CommentRepository, mediaRepo repository.MediaRepository, notifier Notifier) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		mediaRepo:   mediaRepo,
		notifier:    notifierOrNoop(notifier),
	}
}

func (s *commentService) visibleMedia(ctx context.Context, mediaID string) error {
	m, err := s.mediaRepo.FindByID(ctx, mediaID)
	if err != nil {
		return err
	}
	if !m.Flags().PubliclyVisible() {
		return fmt.Errorf("media %s: %w", mediaID, common.ErrNotFound)
	}
	return nil
}

func (s *commentService) ListForMedia(ctx context.Context, mediaID string) ([]*domain.Comment, error) {
	if err := s.visibleMedia(ctx, mediaID); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListVisibleByMedia(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	for i, c := range comments {
		comments[i] = c.Public()
	}
	return comments, nil
}

func (s *commentService) Create(ctx context.Context, req CreateCommentRequest) (*domain.Comment, error) {
	content := strings.TrimSpace(req.Content)
	switch {
	case req.MediaID == "":
		return nil, fmt.Errorf("%w: media id is required", common.ErrInvalidInput)
	case content == "":
		return nil, fmt.Errorf("%w: comment content is required", common.ErrInvalidInput)
	case utf8.RuneCountInString(content) > domain.MaxCommentLength:
		return nil, fmt.Errorf("%w: comment is longer than %d characters", common.ErrInvalidInput, domain.MaxCommentLength)
	}

	if err := s.visibleMedia(ctx, req.MediaID); err != nil {
		submissionsTotal.WithLabelValues(string(domain.KindComment), resultLabel(err)).Inc()
		return nil, err
	}

	comment := &domain.Comment{
		MediaID:       req.MediaID,
		Content:       content,
		CommenterName: optionalText(req.CommenterName),
		CommenterIP:   optionalText(req.CommenterIP),
		IsApproved:    true,
		IsDeleted:     false,
	}
	err := s.commentRepo.Create(ctx, comment)
	submissionsTotal.WithLabelValues(string(domain.KindComment), resultLabel(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("save comment: %w", err)
	}

	pub := comment.Public()
	event := changeEvent(domain.ChangeInsert, domain.KindComment, comment.ID, pub)
	event.MediaID = comment.MediaID
	s.notifier.Publish(ctx, event)
	return pub, nil
}
