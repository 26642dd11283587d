package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/diewo77/workshop-quotes/internal/config"
	"google.golang.org/api/option"
)

const gcsPublicHost = "https://storage.googleapis.com"

// GCSBucket uploads to Google Cloud Storage with public-read objects.
type GCSBucket struct {
	client  *gcs.Client
	bucket  string
	baseURL string
}

// NewGCSBucket uses Application Default Credentials unless GCS_CREDENTIALS_JSON is set.
func NewGCSBucket(ctx context.Context, cfg config.StorageConfig) (*GCSBucket, error) {
	var opts []option.ClientOption
	if strings.TrimSpace(cfg.CredentialsJSON) != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	base := cfg.PublicBaseURL
	if base == "" {
		base = gcsPublicHost + "/" + cfg.Bucket
	}
	return &GCSBucket{client: client, bucket: cfg.Bucket, baseURL: base}, nil
}

// publicReadACL is the predefined object ACL that makes uploads world readable.
// Buckets with uniform bucket-level access reject object ACLs; grant
// allUsers:objectViewer on the bucket instead.
const publicReadACL = "publicRead"

func (b *GCSBucket) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	wc := b.objectWriter(ctx, key, contentType)
	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("failed to upload to gcs bucket %q: %w", b.bucket, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close gcs writer: %w", err)
	}
	return publicURL(b.baseURL, key), nil
}

func (b *GCSBucket) objectWriter(ctx context.Context, key, contentType string) *gcs.Writer {
	wc := b.client.Bucket(b.bucket).Object(key).NewWriter(ctx)
	wc.ContentType = contentType
	wc.PredefinedACL = publicReadACL
	return wc
}

// Close releases the client.
func (b *GCSBucket) Close() error { return b.client.Close() }

func publicURL(base, key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(parts, "/")
}
