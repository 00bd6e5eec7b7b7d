package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStorage is the bucket interface the services depend on: put a
// binary object under a path and resolve a path to a public URL.
type ObjectStorage interface {
	Upload(ctx context.Context, bucket, objectPath string, reader io.Reader, size int64, contentType string) error
	PublicURL(bucket, objectPath string) string
}

type Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	PublicBaseURL string // CDN or reverse-proxy base serving the buckets read-only
}

type MinioStorage struct {
	client        *minio.Client
	publicBaseURL string
}

func NewMinioStorage(cfg Config) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	publicBase := cfg.PublicBaseURL
	if publicBase == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicBase = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}

	return &MinioStorage{
		client:        client,
		publicBaseURL: strings.TrimRight(publicBase, "/"),
	}, nil
}

// EnsureBuckets creates any missing buckets. Called once at startup.
func (s *MinioStorage) EnsureBuckets(ctx context.Context, buckets ...string) error {
	for _, bucket := range buckets {
		exists, err := s.client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("failed to check bucket %q: %w", bucket, err)
		}
		if exists {
			continue
		}
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %q: %w", bucket, err)
		}
		log.Printf("Created storage bucket %q", bucket)
	}
	return nil
}

func (s *MinioStorage) Upload(ctx context.Context, bucket, objectPath string, reader io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, bucket, objectPath, reader, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "max-age=3600",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s/%s: %w", bucket, objectPath, err)
	}
	return nil
}

func (s *MinioStorage) PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, bucket, objectPath)
}
