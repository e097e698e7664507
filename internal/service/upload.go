package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"socialfeed/internal/model"
	"socialfeed/internal/storage"
)

// UploadService validates post image uploads and hands them to blob storage.
type UploadService struct {
	store storage.Storage
}

func NewUploadService(store storage.Storage) *UploadService {
	return &UploadService{store: store}
}

var extContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// UploadPostImage enforces the extension allow-list and the 5MB cap, verifies
// the payload decodes as an image, and stores it under a random key.
func (s *UploadService) UploadPostImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResponse, error) {
	if header == nil || header.Size == 0 {
		return nil, model.ErrFileRequired
	}
	if header.Size > model.MaxUploadSizeBytes {
		return nil, model.ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !model.IsAllowedImageExtension(ext) {
		return nil, model.ErrInvalidImageType
	}

	limitedReader := io.LimitReader(file, model.MaxUploadSizeBytes+1)
	data, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > model.MaxUploadSizeBytes {
		return nil, model.ErrFileTooLarge
	}

	// A valid extension is not enough; the bytes must decode as an image.
	// imaging has no webp decoder, so webp is checked by its RIFF header.
	if ext == ".webp" {
		if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
			return nil, model.ErrInvalidImageType
		}
	} else if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		return nil, model.ErrInvalidImageType
	}

	key := fmt.Sprintf("%s/%s%s", model.UploadFolder, uuid.NewString(), ext)

	url, err := s.store.Save(ctx, key, extContentTypes[ext], data)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	return &model.UploadResponse{
		URL:              url,
		OriginalFileName: header.Filename,
		Size:             int64(len(data)),
	}, nil
}
