package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"strings"
	"testing"

	"socialfeed/internal/model"
)

// fakeStorage records the last saved object and returns a canned URL.
type fakeStorage struct {
	key         string
	contentType string
	data        []byte
	err         error
}

func (f *fakeStorage) Save(_ context.Context, key, contentType string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.key = key
	f.contentType = contentType
	f.data = data
	return "https://cdn.example.com/" + key, nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

// fakeFile wraps a bytes.Reader into a multipart.File.
type fakeFile struct{ *bytes.Reader }

func (fakeFile) Close() error { return nil }

func uploadFixture(name string, data []byte) (multipart.File, *multipart.FileHeader) {
	return fakeFile{bytes.NewReader(data)}, &multipart.FileHeader{
		Filename: name,
		Size:     int64(len(data)),
	}
}

func TestUploadService_UploadPostImage_Success(t *testing.T) {
	store := &fakeStorage{}
	svc := NewUploadService(store)

	data := pngBytes(t)
	file, header := uploadFixture("photo.PNG", data)

	resp, err := svc.UploadPostImage(context.Background(), file, header)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !strings.HasPrefix(store.key, model.UploadFolder+"/") || !strings.HasSuffix(store.key, ".png") {
		t.Errorf("key = %q, want uploads/<uuid>.png", store.key)
	}
	if store.contentType != "image/png" {
		t.Errorf("content type = %q, want image/png", store.contentType)
	}
	if resp.OriginalFileName != "photo.PNG" {
		t.Errorf("original_file_name = %q", resp.OriginalFileName)
	}
	if resp.Size != int64(len(data)) {
		t.Errorf("size = %d, want %d", resp.Size, len(data))
	}
	if !strings.HasPrefix(resp.URL, "https://cdn.example.com/") {
		t.Errorf("url = %q", resp.URL)
	}
}

func TestUploadService_UploadPostImage_Rejections(t *testing.T) {
	valid := pngBytes(t)

	tests := []struct {
		name     string
		filename string
		data     []byte
		size     int64 // 0 means len(data)
		wantErr  error
	}{
		{name: "disallowed extension", filename: "report.pdf", data: valid, wantErr: model.ErrInvalidImageType},
		{name: "no extension", filename: "photo", data: valid, wantErr: model.ErrInvalidImageType},
		{name: "over the size cap", filename: "big.png", data: valid, size: model.MaxUploadSizeBytes + 1, wantErr: model.ErrFileTooLarge},
		{name: "empty file", filename: "empty.png", data: nil, wantErr: model.ErrFileRequired},
		{name: "extension lies about content", filename: "fake.png", data: []byte("not an image at all"), wantErr: model.ErrInvalidImageType},
		{name: "webp without riff header", filename: "fake.webp", data: []byte("not an image at all"), wantErr: model.ErrInvalidImageType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewUploadService(&fakeStorage{})

			file, header := uploadFixture(tt.filename, tt.data)
			if tt.size != 0 {
				header.Size = tt.size
			}

			_, err := svc.UploadPostImage(context.Background(), file, header)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUploadService_UploadPostImage_WebpHeader(t *testing.T) {
	// A minimal RIFF/WEBP header passes the magic-byte check even though
	// the decoder cannot parse webp payloads.
	data := append([]byte("RIFF\x00\x00\x00\x00WEBP"), []byte("VP8 ")...)
	svc := NewUploadService(&fakeStorage{})

	file, header := uploadFixture("pic.webp", data)
	resp, err := svc.UploadPostImage(context.Background(), file, header)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !strings.HasSuffix(resp.URL, ".webp") {
		t.Errorf("url = %q, want .webp object", resp.URL)
	}
}
