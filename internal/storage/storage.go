package storage

import (
	"context"
)

// Client abstracts the subset of object store operations publishing needs.
type Client interface {
	UploadFile(ctx context.Context, key, filePath string, contentType string) error
	UploadBytes(ctx context.Context, key string, data []byte, contentType string) error
	ObjectURL(key string) string
}
