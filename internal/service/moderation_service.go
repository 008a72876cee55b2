package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/damoang/mediawall/internal/common"
	"github.com/damoang/mediawall/internal/domain"
	"github.com/damoang/mediawall/internal/repository"
	pkglogger "github.com/damoang/mediawall/pkg/logger"
)

// MaxAuditPage caps RecentActions.
const MaxAuditPage = 200

// BulkItem is the outcome of one identifier in a bulk transition.
type BulkItem struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`

	err error
}

// Err returns the failure of this item, if any.
func (i BulkItem) Err() error { return i.err }

// BulkResult lists per-identifier outcomes in request order.
type BulkResult struct {
	Kind      domain.Kind   `json:"kind"`
	Action    domain.Action `json:"action"`
	Items     []BulkItem    `json:"items"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
}

func (r *BulkResult) add(id string, err error) {
	item := BulkItem{ID: id, OK: err == nil, err: err}
	if err != nil {
		item.Error = err.Error()
		r.Failed++
	} else {
		r.Succeeded++
	}
	r.Items = append(r.Items, item)
}

// HasFailures reports whether any identifier failed.
func (r *BulkResult) HasFailures() bool {
	return r.Failed > 0
}

// ModerationService applies moderation transitions to media and comments.
type ModerationService interface {
	ListMedia(ctx context.Context, filter domain.Filter) ([]*domain.MediaView, error)
	ListComments(ctx context.Context, filter domain.Filter) ([]*domain.Comment, error)
	// Apply runs one transition. Re-applying it, or targeting an id that no
	// longer exists, succeeds without change.
	Apply(ctx context.Context, kind domain.Kind, id string, action domain.Action, adminID string) error
	// ApplyBulk runs the transition for each id in order. Failures do not
	// stop the batch and nothing is rolled back.
	ApplyBulk(ctx context.Context, kind domain.Kind, ids []string, action domain.Action, adminID string) (*BulkResult, error)
	RecentActions(ctx context.Context, limit int) ([]*domain.ModerationAction, error)
}

type moderationService struct {
	mediaRepo   repository.MediaRepository
	commentRepo repository.CommentRepository
	auditRepo   repository.ModerationActionRepository
	store       ObjectStore
	notifier    Notifier
}

// NewModerationService creates a ModerationService. notifier may be nil.
func NewModerationService(
	mediaRepo repository.MediaRepository,
	commentRepo repository.CommentRepository,
	auditRepo repository.ModerationActionRepository,
	store ObjectStore,
	notifier Notifier,
) ModerationService {
	return &moderationService{
		mediaRepo:   mediaRepo,
		commentRepo: commentRepo,
		auditRepo:   auditRepo,
		store:       store,
		notifier:    notifierOrNoop(notifier),
	}
}

func (s *moderationService) ListMedia(ctx context.Context, filter domain.Filter) ([]*domain.MediaView, error) {
	items, err := s.mediaRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	views := make([]*domain.MediaView, len(items))
	for i, m := range items {
		views[i] = &domain.MediaView{Media: m, URL: s.store.PublicURL(m.StoragePath)}
	}
	return views, nil
}

func (s *moderationService) ListComments(ctx context.Context, filter domain.Filter) ([]*domain.Comment, error) {
	return s.commentRepo.List(ctx, filter)
}

func validateTransition(kind domain.Kind, action domain.Action) error {
	if _, err := domain.ParseKind(string(kind)); err != nil {
		return err
	}
	if _, err := domain.ParseAction(string(action)); err != nil {
		return err
	}
	if action == domain.ActionPurge && kind != domain.KindMedia {
		return fmt.Errorf("%w: %s cannot be permanently deleted", common.ErrInvalidInput, kind)
	}
	return nil
}

func (s *moderationService) Apply(ctx context.Context, kind domain.Kind, id string, action domain.Action, adminID string) error {
	if err := validateTransition(kind, action); err != nil {
		return err
	}
	return s.apply(ctx, kind, id, action, adminID)
}

func (s *moderationService) apply(ctx context.Context, kind domain.Kind, id string, action domain.Action, adminID string) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", common.ErrInvalidInput)
	}

	var (
		event   domain.ChangeEvent
		applied bool
		err     error
	)
	if action == domain.ActionPurge {
		applied, err = s.purgeMedia(ctx, id)
		event = changeEvent(domain.ChangeDelete, kind, id, nil)
	} else {
		event, applied, err = s.updateFlags(ctx, kind, id, action)
	}

	result := resultLabel(err)
	if err == nil && !applied {
		result = "noop"
	}
	moderationTransitions.WithLabelValues(string(kind), string(action), result).Inc()
	if err != nil {
		return err
	}
	if !applied {
		pkglogger.GetLogger().Debug().
			Str("kind", string(kind)).
			Str("id", id).
			Str("action", string(action)).
			Msg("moderation target not found, nothing recorded")
		return nil
	}

	s.audit(ctx, kind, id, action, adminID)
	if event.Type != "" {
		s.notifier.Publish(ctx, event)
	}
	return nil
}

// updateFlags writes the transition and reloads the record to build the
// realtime event. Records no longer publicly visible get a delete event with
// no data. A missing record reports applied=false.
func (s *moderationService) updateFlags(ctx context.Context, kind domain.Kind, id string, action domain.Action) (domain.ChangeEvent, bool, error) {
	update, _ := action.Update()
	switch kind {
	case domain.KindMedia:
		if err := s.mediaRepo.UpdateFlags(ctx, id, update); err != nil {
			return domain.ChangeEvent{}, false, err
		}
		m, err := s.mediaRepo.FindByID(ctx, id)
		if err != nil {
			return domain.ChangeEvent{}, reloadFailedButApplied(err), nil
		}
		if !m.Flags().PubliclyVisible() {
			return changeEvent(domain.ChangeDelete, kind, id, nil), true, nil
		}
		view := &domain.MediaView{Media: m.Public(), URL: s.store.PublicURL(m.StoragePath)}
		return changeEvent(domain.ChangeUpdate, kind, id, view), true, nil
	default:
		if err := s.commentRepo.UpdateFlags(ctx, id, update); err != nil {
			return domain.ChangeEvent{}, false, err
		}
		c, err := s.commentRepo.FindByID(ctx, id)
		if err != nil {
			return domain.ChangeEvent{}, reloadFailedButApplied(err), nil
		}
		event := changeEvent(domain.ChangeUpdate, kind, id, c.Public())
		if !c.Flags().PubliclyVisible() {
			event = changeEvent(domain.ChangeDelete, kind, id, nil)
		}
		event.MediaID = c.MediaID
		return event, true, nil
	}
}

// reloadFailedButApplied reports whether a record that could not be reloaded
// after its transition should still count as changed. Only not-found means
// the id never matched a row.
func reloadFailedButApplied(err error) bool {
	if errors.Is(err, common.ErrNotFound) {
		return false
	}
	pkglogger.GetLogger().Warn().Err(err).Msg("failed to reload moderated record")
	return true
}

// purgeMedia removes the stored object first and the record second. A
// storage failure leaves the record untouched. A record failure after the
// object is gone leaves an orphaned row, which is logged and not repaired.
func (s *moderationService) purgeMedia(ctx context.Context, id string) (bool, error) {
	media, err := s.mediaRepo.FindByID(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := s.store.Delete(ctx, media.StoragePath); err != nil {
		return false, fmt.Errorf("storage deletion failed: %w", err)
	}

	if err := s.mediaRepo.Delete(ctx, id); err != nil {
		pkglogger.GetLogger().Error().
			Err(err).
			Str("media_id", id).
			Str("storage_path", media.StoragePath).
			Msg("media record orphaned: object deleted but record remains")
		return false, fmt.Errorf("database deletion failed: %w", err)
	}
	return true, nil
}

func (s *moderationService) audit(ctx context.Context, kind domain.Kind, id string, action domain.Action, adminID string) {
	entry := &domain.ModerationAction{
		SubjectType: kind,
		SubjectID:   id,
		Action:      action,
		AdminID:     adminID,
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		pkglogger.GetLogger().Warn().
			Err(err).
			Str("kind", string(kind)).
			Str("id", id).
			Str("action", string(action)).
			Msg("failed to record moderation action")
	}
}

func (s *moderationService) ApplyBulk(ctx context.Context, kind domain.Kind, ids []string, action domain.Action, adminID string) (*BulkResult, error) {
	if err := validateTransition(kind, action); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: ids are required", common.ErrInvalidInput)
	}

	// A started batch runs to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	result := &BulkResult{Kind: kind, Action: action, Items: make([]BulkItem, 0, len(ids))}
	for _, id := range ids {
		result.add(id, s.apply(ctx, kind, id, action, adminID))
	}

	if result.HasFailures() {
		pkglogger.GetLogger().Warn().
			Str("kind", string(kind)).
			Str("action", string(action)).
			Int("succeeded", result.Succeeded).
			Int("failed", result.Failed).
			Msg("bulk moderation finished with failures")
	}
	return result, nil
}

func (s *moderationService) RecentActions(ctx context.Context, limit int) ([]*domain.ModerationAction, error) {
	if limit <= 0 || limit > MaxAuditPage {
		limit = MaxAuditPage
	}
	return s.auditRepo.ListRecent(ctx, limit)
}
