package handler

import (
	"errors"
	"log"
	"net/http"

	"socialfeed/internal/httputil"
	"socialfeed/internal/model"
	"socialfeed/internal/service"
	"socialfeed/internal/transport/http/middleware"
)

type UploadHandler struct {
	uploadService *service.UploadService
}

func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// UploadPostImage handles POST /uploads/post-image
// Accepts a multipart form with a "file" field, capped at 5MB.
func (h *UploadHandler) UploadPostImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	maxFormSize := int64(model.MaxUploadSizeBytes) + 1024*1024 // allow form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
			return
		}
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "File exceeds 5 MB limit")
			return
		}
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteBadRequest(w, "File is required")
		return
	}
	defer file.Close()

	resp, err := h.uploadService.UploadPostImage(r.Context(), file, header)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrFileRequired):
			httputil.WriteBadRequest(w, "File is required")
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "File exceeds 5 MB limit")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequestWithCode(w, model.CodeInvalidImageType, "Only JPG, PNG, GIF, and WEBP are allowed")
		default:
			log.Printf("[ERROR] Upload handler: user=%d err=%v", userID, err)
			httputil.WriteInternalError(w, "Failed to upload file")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}
