package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// cacheControl matches what public readers expect for immutable uploads.
const cacheControl = "max-age=3600"

// S3Client wraps the AWS S3 client for S3/R2/MinIO compatible storage
type S3Client struct {
	client    *s3.Client
	bucket    string
	endpoint  string
	region    string
	cdnURL    string
	pathStyle bool
}

// S3Config holds S3-compatible storage configuration
type S3Config struct {
	Endpoint        string // e.g. http://localhost:9000 for MinIO
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	CDNURL          string // optional public base URL for objects
	ForcePathStyle  bool   // true for MinIO/R2
}

// NewS3Client creates a new S3-compatible storage client
func NewS3Client(cfg S3Config) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage: bucket is required")
	}

	opts := func(o *s3.Options) {
		o.Region = cfg.Region
		o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	}

	return &S3Client{
		client:    s3.New(s3.Options{}, opts),
		bucket:    cfg.Bucket,
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		region:    cfg.Region,
		cdnURL:    strings.TrimRight(cfg.CDNURL, "/"),
		pathStyle: cfg.ForcePathStyle,
	}, nil
}

// Upload stores body under key. Existing objects are never overwritten by
// callers because keys are generated from fresh UUIDs.
func (c *S3Client) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String(cacheControl),
	}

	if _, err := c.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3 upload failed: %w", err)
	}
	return nil
}

// Delete removes a file from storage
func (c *S3Client) Delete(ctx context.Context, key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}

	if _, err := c.client.DeleteObject(ctx, input); err != nil {
		return fmt.Errorf("s3 delete failed: %w", err)
	}
	return nil
}

// PublicURL returns the public address of key. A configured CDN wins, then a
// custom endpoint, then the AWS virtual-hosted style URL.
func (c *S3Client) PublicURL(key string) string {
	escaped := escapeKey(key)
	switch {
	case c.cdnURL != "":
		return c.cdnURL + "/" + escaped
	case c.endpoint != "" && c.pathStyle:
		return c.endpoint + "/" + c.bucket + "/" + escaped
	case c.endpoint != "":
		u, err := url.Parse(c.endpoint)
		if err != nil {
			return c.endpoint + "/" + c.bucket + "/" + escaped
		}
		return u.Scheme + "://" + c.bucket + "." + u.Host + "/" + escaped
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, escaped)
	}
}

// GenerateMediaKey builds a unique key of the form {uuid}/{uuid}.{ext}
// keeping the extension of the original file name.
func GenerateMediaKey(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	key := uuid.NewString() + "/" + uuid.NewString()
	if ext == "" {
		return key
	}
	return key + "." + ext
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
