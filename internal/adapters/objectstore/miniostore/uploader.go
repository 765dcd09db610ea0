package miniostore

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"pet-community/internal/ports/objectstore"
)

type Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
	UseSSL        bool
}

func ConfigFromEnv() Config {
	return Config{
		Endpoint:      os.Getenv("MINIO_ENDPOINT"),
		AccessKey:     os.Getenv("MINIO_ACCESS_KEY"),
		SecretKey:     os.Getenv("MINIO_SECRET_KEY"),
		Bucket:        os.Getenv("MINIO_BUCKET"),
		PublicBaseURL: os.Getenv("MINIO_PUBLIC_BASE_URL"),
		UseSSL:        strings.EqualFold(os.Getenv("MINIO_USE_SSL"), "true"),
	}
}

func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Endpoint) != "" && strings.TrimSpace(c.Bucket) != ""
}

// Store uploads card images to an S3-compatible bucket.
// Implements objectstore.Uploader.
type Store struct {
	cfg    Config
	client *minio.Client
}

func New(cfg Config) (*Store, error) {
	if !cfg.Enabled() {
		return &Store{cfg: cfg}, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("miniostore: new client: %w", err)
	}
	return &Store{cfg: cfg, client: client}, nil
}

func (s *Store) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if s == nil || s.client == nil {
		return "", objectstore.ErrNotConfigured
	}
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("miniostore: empty key")
	}

	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("miniostore: put object: %w", err)
	}

	return s.publicURL(key), nil
}

func (s *Store) publicURL(key string) string {
	if base := strings.TrimRight(s.cfg.PublicBaseURL, "/"); base != "" {
		return base + "/" + key
	}
	scheme := "http"
	if s.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.Endpoint, s.cfg.Bucket, key)
}
