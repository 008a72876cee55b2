package domain

import "time"

// ChangeType names what happened to a content record.
type ChangeType string

const (
	ChangeInsert ChangeType = "insert"
	ChangeUpdate ChangeType = "update"
	ChangeDelete ChangeType = "delete"
)

// ChangeEvent is pushed to realtime subscribers when a content record changes.
// Data carries the public form of the record and is nil for delete events.
// MediaID is set on comment events so they can be routed without Data.
type ChangeEvent struct {
	Type    ChangeType  `json:"type"`
	Kind    Kind        `json:"kind"`
	ID      string      `json:"id"`
	MediaID string      `json:"media_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	At      time.Time   `json:"at"`
}
