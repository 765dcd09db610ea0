package objectstore

import (
	"context"
	"errors"
)

var ErrNotConfigured = errors.New("object storage not configured")

// Uploader stores bytes under a key and returns a public reference.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}
