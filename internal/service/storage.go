package service

import (
	"context"
	"io"
)

// ObjectStore is the binary store holding uploaded media.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}
