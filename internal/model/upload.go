package model

import (
	"errors"
	"strings"
)

// Upload constraints
const (
	MaxUploadSizeBytes = 5 * 1024 * 1024 // 5MB
	UploadFolder       = "uploads"
)

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// IsAllowedImageExtension reports if the file extension is on the allow-list.
func IsAllowedImageExtension(ext string) bool {
	_, ok := allowedImageExtensions[strings.ToLower(ext)]
	return ok
}

// Error codes for HTTP responses
const (
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeInvalidImageType = "INVALID_IMAGE_TYPE"
)

// Upload errors
var (
	ErrFileRequired     = errors.New("file is required")
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidImageType = errors.New("invalid image type")
)

// UploadResponse describes the stored object.
type UploadResponse struct {
	URL              string `json:"url"`
	OriginalFileName string `json:"original_file_name"`
	Size             int64  `json:"size"`
}
