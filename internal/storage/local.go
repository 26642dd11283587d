package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalPrefix is where cmd/server serves LocalBucket files.
const LocalPrefix = "/uploads"

var errBadKey = errors.New("invalid object key")

// LocalBucket writes objects under a directory on disk.
type LocalBucket struct {
	dir     string
	baseURL string
}

// NewLocalBucket creates dir if needed. URLs are baseURL + /uploads/<key>.
func NewLocalBucket(dir, baseURL string) (*LocalBucket, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalBucket{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir is the root directory objects are written to.
func (b *LocalBucket) Dir() string { return b.dir }

func (b *LocalBucket) Upload(ctx context.Context, key, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := path.Clean("/" + key)[1:]
	if clean == "" || clean != key {
		return "", fmt.Errorf("%w: %q", errBadKey, key)
	}
	dst := filepath.Join(b.dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", err
	}
	return publicURL(b.baseURL+LocalPrefix, clean), nil
}
