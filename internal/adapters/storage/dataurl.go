package storage

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrMalformedDataURL = errors.New("photo must be a base64 data URL")

// Photo is a decoded data URL.
type Photo struct {
	ContentType string
	Data        []byte
}

// DecodeDataURL parses "data:<type>;base64,<payload>" and checks the type
// against AllowedPhotoTypes and the size against maxSize.
func DecodeDataURL(dataURL string, maxSize int64) (Photo, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(dataURL), "data:")
	if !ok {
		return Photo{}, ErrMalformedDataURL
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Photo{}, ErrMalformedDataURL
	}
	mediaType, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return Photo{}, ErrMalformedDataURL
	}

	contentType, err := ValidateContentType(mediaType)
	if err != nil {
		return Photo{}, err
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Photo{}, ErrMalformedDataURL
	}
	if err := ValidateFileSize(int64(len(data)), maxSize); err != nil {
		return Photo{}, err
	}
	return Photo{ContentType: contentType, Data: data}, nil
}
