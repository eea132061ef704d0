package validation

import (
	"net/http"
	"slices"

	apperrors "equipment-access/pkg/errors"
)

const MaxImageSizeMB = 10

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// ValidateImage checks the size and sniffed MIME type of an equipment image.
// It returns the detected content type.
func ValidateImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", apperrors.RequiredField("image")
	}
	if len(data) > MaxImageSizeMB*1024*1024 {
		return "", apperrors.NewValidationError("image", "file size %.2f MB exceeds %d MB", float64(len(data))/1024/1024, MaxImageSizeMB)
	}

	mimeType := http.DetectContentType(data)
	if !slices.Contains(allowedImageTypes, mimeType) {
		return "", apperrors.NewValidationError("image", "unsupported file type %s", mimeType)
	}
	return mimeType, nil
}
