package domain

import (
	"fmt"
	"strings"

	"github.com/damoang/mediawall/internal/common"
)

// Kind names a moderated content type.
type Kind string

const (
	KindMedia   Kind = "media"
	KindComment Kind = "comment"
)

// ParseKind accepts the singular and plural route forms.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "media":
		return KindMedia, nil
	case "comment", "comments":
		return KindComment, nil
	default:
		return "", fmt.Errorf("%w: unknown content kind %q", common.ErrInvalidInput, s)
	}
}

// Visibility is the publish state derived from the approved/deleted flags.
type Visibility string

const (
	VisibilityPending     Visibility = "pending"
	VisibilityPublished   Visibility = "published"
	VisibilitySoftDeleted Visibility = "soft_deleted"
	VisibilityPurged      Visibility = "purged"
)

// Flags are the two stored booleans of a content record. Deleted takes
// precedence over Approved.
type Flags struct {
	Approved bool
	Deleted  bool
}

// Visibility derives the state from f.
func (f Flags) Visibility() Visibility {
	switch {
	case f.Deleted:
		return VisibilitySoftDeleted
	case f.Approved:
		return VisibilityPublished
	default:
		return VisibilityPending
	}
}

// PubliclyVisible reports whether anonymous readers may see the record.
func (f Flags) PubliclyVisible() bool {
	return f.Approved && !f.Deleted
}

// Action is a moderation transition verb.
type Action string

const (
	ActionApprove Action = "approve"
	ActionDelete  Action = "delete"
	ActionRestore Action = "restore"
	ActionPurge   Action = "permanent-delete"
)

// ParseAction validates a transition verb.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionApprove, ActionDelete, ActionRestore, ActionPurge:
		return a, nil
	default:
		return "", fmt.Errorf("%w: unknown action %q", common.ErrInvalidInput, s)
	}
}

// FlagUpdate is the set of columns a flag transition writes. Nil fields are
// left untouched.
type FlagUpdate struct {
	Approved *bool
	Deleted  *bool
}

// Update returns the flag change for a. Purge has none and reports false.
func (a Action) Update() (FlagUpdate, bool) {
	t, f := true, false
	switch a {
	case ActionApprove:
		return FlagUpdate{Approved: &t, Deleted: &f}, true
	case ActionDelete:
		return FlagUpdate{Deleted: &t}, true
	case ActionRestore:
		return FlagUpdate{Deleted: &f}, true
	default:
		return FlagUpdate{}, false
	}
}

// Apply returns f with the update applied.
func (u FlagUpdate) Apply(f Flags) Flags {
	if u.Approved != nil {
		f.Approved = *u.Approved
	}
	if u.Deleted != nil {
		f.Deleted = *u.Deleted
	}
	return f
}

// Columns returns the update as gorm column values.
func (u FlagUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 2)
	if u.Approved != nil {
		cols["is_approved"] = *u.Approved
	}
	if u.Deleted != nil {
		cols["is_deleted"] = *u.Deleted
	}
	return cols
}

// Filter is a named moderation listing view.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterApproved Filter = "approved"
	FilterPending  Filter = "pending"
	FilterDeleted  Filter = "deleted"
)

// ParseFilter validates a filter name; empty means all.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterApproved, FilterPending, FilterDeleted:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown filter %q", common.ErrInvalidInput, s)
	}
}

// Matches reports whether a record with flags f belongs to the view.
func (f Filter) Matches(flags Flags) bool {
	switch f {
	case FilterApproved:
		return flags.Approved && !flags.Deleted
	case FilterPending:
		return !flags.Approved && !flags.Deleted
	case FilterDeleted:
		return flags.Deleted
	default:
		return true
	}
}
