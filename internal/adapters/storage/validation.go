package storage

import (
	"fmt"
	"strings"
)

// AllowedPhotoTypes maps the accepted photo MIME types to file extensions.
var AllowedPhotoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// ValidateContentType checks if the content type is allowed and returns
// the normalized type.
func ValidateContentType(contentType string) (string, error) {
	// Normalize content type (remove parameters like charset)
	normalized := strings.Split(contentType, ";")[0]
	normalized = strings.TrimSpace(strings.ToLower(normalized))

	if _, ok := AllowedPhotoTypes[normalized]; !ok {
		return "", fmt.Errorf("content type %q is not allowed", contentType)
	}
	return normalized, nil
}

// ValidateFileSize checks if the file size is within limits.
// maxSize <= 0 disables the upper bound.
func ValidateFileSize(sizeBytes, maxSize int64) error {
	if sizeBytes <= 0 {
		return fmt.Errorf("file size must be greater than 0")
	}
	if maxSize > 0 && sizeBytes > maxSize {
		return fmt.Errorf("file size %d bytes exceeds maximum allowed size of %d bytes", sizeBytes, maxSize)
	}
	return nil
}
