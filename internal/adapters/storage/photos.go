package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"roofing_crm_backend/platform/apperr"
	"roofing_crm_backend/platform/logger"

	"github.com/rwcarlsen/goexif/exif"
)

// MetaCapturedAt is the object metadata key holding the EXIF capture time.
const MetaCapturedAt = "captured-at"

// BucketPhotoStore uploads job photos to a bucket. References are object keys.
type BucketPhotoStore struct {
	objects ObjectStore
	bucket  string
	maxSize int64
	log     *logger.Logger
}

func NewBucketPhotoStore(objects ObjectStore, bucket string, maxSize int64, log *logger.Logger) *BucketPhotoStore {
	return &BucketPhotoStore{objects: objects, bucket: bucket, maxSize: maxSize, log: log}
}

// Init makes sure the photo bucket exists.
func (s *BucketPhotoStore) Init(ctx context.Context) error {
	return s.objects.EnsureBucketExists(ctx, s.bucket)
}

func (s *BucketPhotoStore) Save(ctx context.Context, leadID int64, dataURL string) (string, error) {
	photo, err := DecodeDataURL(dataURL, s.maxSize)
	if err != nil {
		return "", apperr.Validation(err.Error())
	}

	metadata := map[string]string{}
	if taken, ok := CapturedAt(photo.Data); ok {
		metadata[MetaCapturedAt] = taken.UTC().Format(time.RFC3339)
	}

	folder := fmt.Sprintf("leads/%d", leadID)
	fileName := "job-photo" + AllowedPhotoTypes[photo.ContentType]
	key, err := s.objects.UploadFile(ctx, s.bucket, folder, fileName, photo.ContentType, bytes.NewReader(photo.Data), int64(len(photo.Data)), metadata)
	if err != nil {
		return "", err
	}
	s.log.WithContext(ctx).Debug("job photo stored", "leadId", leadID, "key", key)
	return key, nil
}

func (s *BucketPhotoStore) Delete(ctx context.Context, ref string) error {
	return s.objects.DeleteObject(ctx, s.bucket, ref)
}

func (s *BucketPhotoStore) URL(ctx context.Context, ref string) (string, error) {
	presigned, err := s.objects.GenerateDownloadURL(ctx, s.bucket, ref)
	if err != nil {
		return "", err
	}
	return presigned.URL, nil
}

// InlineStore keeps the validated data URL itself as the reference. It is
// used when no bucket is configured.
type InlineStore struct {
	maxSize int64
}

func NewInlineStore(maxSize int64) *InlineStore {
	return &InlineStore{maxSize: maxSize}
}

func (s *InlineStore) Save(ctx context.Context, leadID int64, dataURL string) (string, error) {
	if _, err := DecodeDataURL(dataURL, s.maxSize); err != nil {
		return "", apperr.Validation(err.Error())
	}
	return dataURL, nil
}

func (s *InlineStore) Delete(ctx context.Context, ref string) error { return nil }

func (s *InlineStore) URL(ctx context.Context, ref string) (string, error) { return ref, nil }

// CapturedAt reads the EXIF capture time of a JPEG.
func CapturedAt(data []byte) (time.Time, bool) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return time.Time{}, false
	}
	taken, err := x.DateTime()
	if err != nil {
		return time.Time{}, false
	}
	return taken, true
}
