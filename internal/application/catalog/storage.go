package catalog

import (
	"context"
	"time"
)

// ObjectStorage holds product image files
type ObjectStorage interface {
	// GenerateUploadURL presigns a direct browser upload
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	// PublicURL is the address images are served from
	PublicURL(storageKey string) string
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
	DeleteObject(ctx context.Context, storageKey string) error
}
