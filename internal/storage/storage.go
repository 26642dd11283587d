// Package storage keeps uploaded files (the company logo) in an object store
// and hands back their public URL.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/diewo77/workshop-quotes/internal/config"
)

// ErrNotConfigured is returned when no storage provider is set.
var ErrNotConfigured = errors.New("object storage not configured")

// Bucket stores an object under key and returns the URL it is publicly served at.
type Bucket interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// New picks the bucket implementation named by STORAGE_PROVIDER.
func New(ctx context.Context, cfg config.StorageConfig) (Bucket, error) {
	switch cfg.Provider {
	case config.StorageGCS:
		return NewGCSBucket(ctx, cfg)
	case config.StorageLocal:
		return NewLocalBucket(cfg.LocalDir, cfg.PublicBaseURL)
	case "":
		return Unconfigured{}, nil
	default:
		return nil, fmt.Errorf("unsupported STORAGE_PROVIDER %q", cfg.Provider)
	}
}

// Unconfigured rejects every upload with ErrNotConfigured.
type Unconfigured struct{}

func (Unconfigured) Upload(context.Context, string, string, []byte) (string, error) {
	return "", ErrNotConfigured
}
