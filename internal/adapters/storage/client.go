package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DefaultPresignTTL bounds how long a job photo link stays valid.
const DefaultPresignTTL = 15 * time.Minute

// MinIOStore implements ObjectStore on an S3-compatible endpoint.
type MinIOStore struct {
	client     *minio.Client
	presignTTL time.Duration
}

// NewMinIOStore connects to the configured endpoint. No request is made
// until the first call.
func NewMinIOStore(cfg Config) (*MinIOStore, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("minio: endpoint not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("minio: new client: %w", err)
	}
	return &MinIOStore{client: client, presignTTL: DefaultPresignTTL}, nil
}

func (s *MinIOStore) EnsureBucketExists(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("minio: bucket exists %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("minio: make bucket %s: %w", bucket, err)
	}
	return nil
}

// UploadFile stores reader under folder with a collision-free key and returns that key.
func (s *MinIOStore) UploadFile(ctx context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64, metadata map[string]string) (string, error) {
	key := objectKey(folder, fileName, uuid.NewString())

	_, err := s.client.PutObject(ctx, bucket, key, reader, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: metadata,
	})
	if err != nil {
		return "", fmt.Errorf("minio: put %s: %w", key, err)
	}
	return key, nil
}

func (s *MinIOStore) GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (*PresignedURL, error) {
	expiresAt := time.Now().Add(s.presignTTL)

	u, err := s.client.PresignedGetObject(ctx, bucket, fileKey, s.presignTTL, url.Values{})
	if err != nil {
		return nil, fmt.Errorf("minio: presign %s: %w", fileKey, err)
	}
	return &PresignedURL{URL: u.String(), FileKey: fileKey, ExpiresAt: expiresAt}, nil
}

func (s *MinIOStore) DeleteObject(ctx context.Context, bucket, fileKey string) error {
	if err := s.client.RemoveObject(ctx, bucket, fileKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio: remove %s: %w", fileKey, err)
	}
	return nil
}

// objectKey turns leads/7 + job-photo.jpg into leads/7/job-photo_1a2b3c4d.jpg.
func objectKey(folder, fileName, id string) string {
	ext := path.Ext(fileName)
	base := strings.TrimSuffix(fileName, ext)
	if len(id) > 8 {
		id = id[:8]
	}
	return path.Join(folder, base+"_"+id+ext)
}
