package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"socialfeed/internal/httputil"
	"socialfeed/internal/model"
	"socialfeed/internal/service"
	"socialfeed/internal/transport/http/middleware"
)

type discardStorage struct{}

func (discardStorage) Save(_ context.Context, key, _ string, _ []byte) (string, error) {
	return "https://cdn.example.com/" + key, nil
}

func uploadRequest(t *testing.T, contentType string, body []byte) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/uploads/post-image", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, int64(1))
	return req.WithContext(ctx)
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp httputil.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return resp.Error.Code
}

func TestUploadHandler_BodyTooLarge(t *testing.T) {
	h := NewUploadHandler(service.NewUploadService(discardStorage{}))

	// One megabyte past the handler's cap (upload limit plus form overhead).
	// The size cap must be reported by type, not by matching error text.
	oversized := int64(model.MaxUploadSizeBytes) + 2*1024*1024
	req := uploadRequest(t, "multipart/form-data; boundary=xxx", make([]byte, oversized))
	rec := httptest.NewRecorder()

	h.UploadPostImage(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if code := decodeErrorCode(t, rec); code != model.CodeFileTooLarge {
		t.Errorf("error code = %q, want %q", code, model.CodeFileTooLarge)
	}
}

func TestUploadHandler_NotMultipart(t *testing.T) {
	h := NewUploadHandler(service.NewUploadService(discardStorage{}))

	req := uploadRequest(t, "application/json", []byte(`{}`))
	rec := httptest.NewRecorder()

	h.UploadPostImage(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if code := decodeErrorCode(t, rec); code != httputil.ErrCodeBadRequest {
		t.Errorf("error code = %q, want %q", code, httputil.ErrCodeBadRequest)
	}
}

func TestUploadHandler_MissingFileField(t *testing.T) {
	h := NewUploadHandler(service.NewUploadService(discardStorage{}))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("note", "no file here"); err != nil {
		t.Fatalf("build form: %v", err)
	}
	mw.Close()

	req := uploadRequest(t, mw.FormDataContentType(), body.Bytes())
	rec := httptest.NewRecorder()

	h.UploadPostImage(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
