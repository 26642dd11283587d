package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	gcs "cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func testGCSBucket(t *testing.T, endpoint string) *GCSBucket {
	t.Helper()
	opts := []option.ClientOption{option.WithoutAuthentication()}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	client, err := gcs.NewClient(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return &GCSBucket{client: client, bucket: "logos", baseURL: gcsPublicHost + "/logos"}
}

func TestGCSObjectWriterIsPublicRead(t *testing.T) {
	b := testGCSBucket(t, "")
	wc := b.objectWriter(context.Background(), "default/1-logo.png", "image/png")
	assert.Equal(t, "publicRead", wc.PredefinedACL)
	assert.Equal(t, "image/png", wc.ContentType)
	assert.Empty(t, wc.Metadata)
}

func TestGCSUploadSendsPredefinedACL(t *testing.T) {
	var (
		mu   sync.Mutex
		acls []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		mu.Lock()
		acls = append(acls, r.URL.Query().Get("predefinedAcl"))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"bucket":"logos","name":"default/1-logo.png","contentType":"image/png"}`)
	}))
	defer srv.Close()

	b := testGCSBucket(t, srv.URL+"/storage/v1/")
	url, err := b.Upload(context.Background(), "default/1-logo.png", "image/png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, "https://storage.googleapis.com/logos/default/1-logo.png", url)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, acls)
	assert.Equal(t, "publicRead", acls[len(acls)-1])
}
