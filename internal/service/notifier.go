package service

import (
	"context"
	"time"

	"github.com/damoang/mediawall/internal/domain"
)

// Notifier pushes content changes to realtime subscribers. Publishing is
// best effort and must not block.
type Notifier interface {
	Publish(ctx context.Context, event domain.ChangeEvent)
}

type noopNotifier struct{}

func (noopNotifier) Publish(context.Context, domain.ChangeEvent) {}

func notifierOrNoop(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

func changeEvent(t domain.ChangeType, kind domain.Kind, id string, data interface{}) domain.ChangeEvent {
	return domain.ChangeEvent{Type: t, Kind: kind, ID: id, Data: data, At: time.Now().UTC()}
}
