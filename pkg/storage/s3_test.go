package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var uuidPattern = `[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`

func TestGenerateMediaKey(t *testing.T) {
	key := GenerateMediaKey("Holiday Photo.JPG")
	assert.Regexp(t, regexp.MustCompile(`^`+uuidPattern+`/`+uuidPattern+`\.jpg$`), key)

	assert.NotEqual(t, key, GenerateMediaKey("Holiday Photo.JPG"))
	assert.Regexp(t, regexp.MustCompile(`^`+uuidPattern+`/`+uuidPattern+`$`), GenerateMediaKey("noext"))
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  S3Config
		want string
	}{
		{
			name: "cdn",
			cfg:  S3Config{Bucket: "media-uploads", CDNURL: "https://cdn.example.com/"},
			want: "https://cdn.example.com/a/b%20c.png",
		},
		{
			name: "path style endpoint",
			cfg:  S3Config{Bucket: "media-uploads", Endpoint: "http://localhost:9000", ForcePathStyle: true},
			want: "http://localhost:9000/media-uploads/a/b%20c.png",
		},
		{
			name: "virtual hosted endpoint",
			cfg:  S3Config{Bucket: "media-uploads", Endpoint: "https://r2.example.com"},
			want: "https://media-uploads.r2.example.com/a/b%20c.png",
		},
		{
			name: "aws",
			cfg:  S3Config{Bucket: "media-uploads", Region: "eu-west-1"},
			want: "https://media-uploads.s3.eu-west-1.amazonaws.com/a/b%20c.png",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewS3Client(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.PublicURL("a/b c.png"))
		})
	}
}

func TestNewS3Client_RequiresBucket(t *testing.T) {
	_, err := NewS3Client(S3Config{})
	assert.Error(t, err)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *S3Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewS3Client(S3Config{
		Endpoint:        srv.URL,
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		Bucket:          "media-uploads",
		ForcePathStyle:  true,
	})
	require.NoError(t, err)
	return c
}

func TestDelete(t *testing.T) {
	var gotMethod, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Delete(context.Background(), "abc/def.png"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/media-uploads/abc/def.png", gotPath)
}

func TestDelete_Failure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>denied</Message></Error>`))
	})

	err := c.Delete(context.Background(), "abc/def.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3 delete failed")
}
