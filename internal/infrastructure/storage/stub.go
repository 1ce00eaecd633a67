package storage

import (
	"context"
	"net/url"
	"strings"
	"time"

	catalogapp "github.com/mbvogue/storefront/internal/application/catalog"
)

var _ catalogapp.ObjectStorage = (*StubObjectStorage)(nil)

// StubObjectStorage is used when storage is disabled. URLs point at
// BaseURL and nothing is stored.
type StubObjectStorage struct {
	BaseURL string
}

// NewStubObjectStorage creates a stub rooted at baseURL (the site's
// /media path when empty)
func NewStubObjectStorage(baseURL string) *StubObjectStorage {
	if baseURL == "" {
		baseURL = "/media"
	}
	return &StubObjectStorage{BaseURL: strings.TrimRight(baseURL, "/")}
}

// GenerateUploadURL returns a fake upload URL carrying the expiry
func (s *StubObjectStorage) GenerateUploadURL(_ context.Context, storageKey, _ string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, ErrStorageKeyRequired
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/upload/" + storageKey + "?expires=" + url.QueryEscape(expiresAt.UTC().Format(time.RFC3339)), expiresAt, nil
}

// PublicURL joins the key to BaseURL
func (s *StubObjectStorage) PublicURL(storageKey string) string {
	if storageKey == "" {
		return ""
	}
	return s.BaseURL + "/" + storageKey
}

// DeleteObject always succeeds
func (s *StubObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return ErrStorageKeyRequired
	}
	return nil
}

// ObjectExists always reports true so image registration works locally
func (s *StubObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, ErrStorageKeyRequired
	}
	return true, nil
}
