package service

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	_, header, err := req.FormFile(field)
	require.NoError(t, err)
	return header
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestUploadServiceAcceptsMatchingContent(t *testing.T) {
	svc := NewUploadService(1, testLogger())

	file, err := svc.Prepare(context.Background(), "image", UploadImage, fileHeader(t, "image", "photo.png", pngBytes))
	require.NoError(t, err)
	require.Equal(t, "image/png", file.ContentType)
	require.Equal(t, "photo.png", file.Name)

	file, err = svc.Prepare(context.Background(), "pdf", UploadPDF, fileHeader(t, "pdf", "form.pdf", []byte("%PDF-1.4\n%%EOF")))
	require.NoError(t, err)
	require.Equal(t, "pdf", file.Field)
}

func TestUploadServiceRejectsMismatchedContent(t *testing.T) {
	svc := NewUploadService(1, testLogger())

	_, err := svc.Prepare(context.Background(), "image", UploadImage, fileHeader(t, "image", "photo.png", []byte("%PDF-1.4\n%%EOF")))
	require.ErrorIs(t, err, ErrUploadTypeNotAllowed)
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Equal(t, "image must be an image file", validationErr.UserMessage())
}

func TestUploadServiceRejectsOversizedFiles(t *testing.T) {
	svc := NewUploadService(1, testLogger())
	big := append(append([]byte(nil), pngBytes...), bytes.Repeat([]byte{0}, 1<<20)...)

	_, err := svc.Prepare(context.Background(), "image", UploadImage, fileHeader(t, "image", "big.png", big))
	require.ErrorIs(t, err, ErrUploadTooLarge)
}

func TestUploadServiceSkipsMissingFiles(t *testing.T) {
	file, err := NewUploadService(1, testLogger()).Prepare(context.Background(), "pdf", UploadPDF, nil)
	require.NoError(t, err)
	require.Empty(t, file.Content)
}
