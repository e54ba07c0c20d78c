package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Uploader stores uploaded files and returns a publicly reachable URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
}

type MinioConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	PublicBaseURL   string
}

// MinioUploader stores complaint attachments in an S3-compatible bucket.
type MinioUploader struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

func NewMinioUploader(ctx context.Context, cfg MinioConfig) (*MinioUploader, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("storage endpoint is required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	uploader := &MinioUploader{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}

	if err := uploader.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return uploader, nil
}

func (u *MinioUploader) ensureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %q: %w", u.bucket, err)
	}
	if exists {
		return nil
	}
	if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %q: %w", u.bucket, err)
	}
	return nil
}

// Upload writes the file under a collision-free key and returns its URL.
func (u *MinioUploader) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	key := objectKey(filename)

	_, err := u.client.PutObject(ctx, u.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %q: %w", key, err)
	}

	if u.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", u.publicBaseURL, u.bucket, key), nil
	}
	return fmt.Sprintf("%s/%s/%s", u.client.EndpointURL().String(), u.bucket, key), nil
}

func objectKey(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.ReplaceAll(base, " ", "_")
	return fmt.Sprintf("complaints/%s/%s_%s",
		time.Now().UTC().Format("2006-01-02"),
		uuid.New().String()[:8],
		base)
}
