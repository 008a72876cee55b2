package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/damoang/mediawall/internal/common"
	"github.com/damoang/mediawall/internal/domain"
	"github.com/damoang/mediawall/internal/repository"
	pkglogger "github.com/damoang/mediawall/pkg/logger"
	"github.com/damoang/mediawall/pkg/storage"
)

// UploadFile is one file of a public upload.
type UploadFile struct {
	FileName    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// UploadRequest is a public media submission.
type UploadRequest struct {
	Files        []UploadFile
	Caption      string
	UploaderName string
	UploaderIP   string
}

// MediaService serves the public feed and accepts uploads.
type MediaService interface {
	// ListFeed returns a page of visible media, newest first, and whether
	// more pages follow.
	ListFeed(ctx context.Context, page, limit int) ([]*domain.MediaView, bool, error)
	// GetMedia returns a visible media item or common.ErrNotFound.
	GetMedia(ctx context.Context, id string) (*domain.MediaView, error)
	// Upload validates every file before storing any of them, then stores
	// and records them in order, stopping at the first failure.
	Upload(ctx context.Context, req UploadRequest) ([]*domain.MediaView, error)
}

type mediaService struct {
	mediaRepo repository.MediaRepository
	store     ObjectStore
	notifier  Notifier
	maxSize   int64
}

// NewMediaService creates a MediaService. notifier may be nil.
func NewMediaService(mediaRepo repository.MediaRepository, store ObjectStore, notifier Notifier, maxSize int64) MediaService {
	return &mediaService{
		mediaRepo: mediaRepo,
		store:     store,
		notifier:  notifierOrNoop(notifier),
		maxSize:   maxSize,
	}
}

func (s *mediaService) view(m *domain.Media) *domain.MediaView {
	return &domain.MediaView{Media: m.Public(), URL: s.store.PublicURL(m.StoragePath)}
}

func (s *mediaService) ListFeed(ctx context.Context, page, limit int) ([]*domain.MediaView, bool, error) {
	items, err := s.mediaRepo.ListVisible(ctx, (page-1)*limit, limit+1)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}
	views := make([]*domain.MediaView, len(items))
	for i, m := range items {
		views[i] = s.view(m)
	}
	return views, hasMore, nil
}

func (s *mediaService) GetMedia(ctx context.Context, id string) (*domain.MediaView, error) {
	m, err := s.mediaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.Flags().PubliclyVisible() {
		return nil, fmt.Errorf("media %s: %w", id, common.ErrNotFound)
	}
	return s.view(m), nil
}

type validatedFile struct {
	UploadFile
	fileType domain.FileType
	mimeType string
}

func (s *mediaService) validate(files []UploadFile) ([]validatedFile, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: at least one file is required", common.ErrInvalidInput)
	}

	out := make([]validatedFile, 0, len(files))
	for _, f := range files {
		mimeType := f.ContentType
		if mimeType == "" || mimeType == "application/octet-stream" {
			mimeType = mime.TypeByExtension(strings.ToLower(path.Ext(f.FileName)))
		}
		if i := strings.Index(mimeType, ";"); i >= 0 {
			mimeType = strings.TrimSpace(mimeType[:i])
		}

		fileType, ok := domain.FileTypeFromMIME(mimeType)
		switch {
		case !ok:
			return nil, fmt.Errorf("%w: %s is not an image or video", common.ErrInvalidInput, f.FileName)
		case f.Size <= 0:
			return nil, fmt.Errorf("%w: %s is empty", common.ErrInvalidInput, f.FileName)
		case f.Size > s.maxSize:
			return nil, fmt.Errorf("%w: %s is larger than %dMB", common.ErrInvalidInput, f.FileName, s.maxSize>>20)
		case f.Open == nil:
			return nil, fmt.Errorf("%w: %s has no content", common.ErrInvalidInput, f.FileName)
		}
		out = append(out, validatedFile{UploadFile: f, fileType: fileType, mimeType: mimeType})
	}
	return out, nil
}

func (s *mediaService) Upload(ctx context.Context, req UploadRequest) ([]*domain.MediaView, error) {
	files, err := s.validate(req.Files)
	if err != nil {
		submissionsTotal.WithLabelValues(string(domain.KindMedia), "invalid").Inc()
		return nil, err
	}

	caption := optionalText(req.Caption)
	uploaderName := optionalText(req.UploaderName)
	uploaderIP := optionalText(req.UploaderIP)

	created := make([]*domain.MediaView, 0, len(files))
	for _, f := range files {
		m, err := s.storeOne(ctx, f, caption, uploaderName, uploaderIP)
		submissionsTotal.WithLabelValues(string(domain.KindMedia), resultLabel(err)).Inc()
		if err != nil {
			return created, err
		}

		v := s.view(m)
		created = append(created, v)
		s.notifier.Publish(ctx, changeEvent(domain.ChangeInsert, domain.KindMedia, m.ID, v))
	}
	return created, nil
}

func (s *mediaService) storeOne(ctx context.Context, f validatedFile, caption, uploaderName, uploaderIP *string) (*domain.Media, error) {
	body, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.FileName, err)
	}
	defer body.Close()

	key := storage.GenerateMediaKey(f.FileName)
	if err := s.store.Upload(ctx, key, body, f.Size, f.mimeType); err != nil {
		return nil, fmt.Errorf("upload %s: %w", f.FileName, err)
	}

	m := &domain.Media{
		StoragePath:  key,
		FileType:     f.fileType,
		FileName:     f.FileName,
		FileSize:     f.Size,
		MimeType:     f.mimeType,
		UploaderIP:   uploaderIP,
		UploaderName: uploaderName,
		Caption:      caption,
		IsApproved:   true,
		IsDeleted:    false,
	}
	if err := s.mediaRepo.Create(ctx, m); err != nil {
		// the object has no record pointing at it; remove it
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			pkglogger.GetLogger().Warn().
				Err(delErr).
				Str("storage_path", key).
				Msg("failed to remove object after record insert failed")
		}
		return nil, fmt.Errorf("save %s: %w", f.FileName, err)
	}

	pkglogger.GetLogger().Info().
		Str("media_id", m.ID).
		Str("storage_path", key).
		Str("file_type", string(m.FileType)).
		Int64("size", m.FileSize).
		Msg("media uploaded")
	return m, nil
}

// optionalText trims s and maps blank input to nil.
func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
