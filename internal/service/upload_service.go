package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/school-console/internal/backend"
)

var (
	// ErrUploadTooLarge indicates the payload exceeded the configured limit.
	ErrUploadTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrUploadTypeNotAllowed indicates the MIME type is not permitted.
	ErrUploadTypeNotAllowed = errors.New("file type not allowed")
)

// UploadKind names the accepted content of an upload field.
type UploadKind string

// Upload kinds accepted by the admission and onboarding forms.
const (
	UploadImage UploadKind = "image"
	UploadPDF   UploadKind = "pdf"
)

// UploadService validates files before they are forwarded to the backend.
type UploadService interface {
	Prepare(ctx context.Context, field string, kind UploadKind, header *multipart.FileHeader) (backend.File, error)
}

type uploadService struct {
	logger  zerolog.Logger
	maxSize int64
	tracer  trace.Tracer
}

// NewUploadService constructs an upload service.
func NewUploadService(maxSizeMB int, logger zerolog.Logger) UploadService {
	if maxSizeMB <= 0 {
		maxSizeMB = 5
	}

	return &uploadService{
		logger:  logger.With().Str("component", "upload_service").Logger(),
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		tracer:  otel.Tracer("github.com/noah-isme/school-console/internal/service/upload"),
	}
}

func (s *uploadService) Prepare(ctx context.Context, field string, kind UploadKind, header *multipart.FileHeader) (backend.File, error) {
	if header == nil {
		return backend.File{}, nil
	}

	_, span := s.tracer.Start(ctx, "upload.prepare", trace.WithAttributes(
		attribute.String("upload.field", field),
		attribute.Int64("upload.size", header.Size),
	))
	defer span.End()

	if header.Size > s.maxSize {
		span.SetStatus(codes.Error, "file too large")
		return backend.File{}, uploadError(field, ErrUploadTooLarge, fmt.Sprintf("%s must be smaller than %d MB", field, s.maxSize/(1024*1024)))
	}

	file, err := header.Open()
	if err != nil {
		span.RecordError(err)
		return backend.File{}, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(file, s.maxSize+1)); err != nil {
		span.RecordError(err)
		return backend.File{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(buf.Len()) > s.maxSize {
		span.SetStatus(codes.Error, "file too large")
		return backend.File{}, uploadError(field, ErrUploadTooLarge, fmt.Sprintf("%s must be smaller than %d MB", field, s.maxSize/(1024*1024)))
	}

	detected := mimetype.Detect(buf.Bytes())
	span.SetAttributes(attribute.String("upload.detected_mime", detected.String()))
	if !allowedUpload(kind, detected) {
		span.SetStatus(codes.Error, "type not allowed")
		s.logger.Warn().Str("field", field).Str("mime", detected.String()).Msg("rejected upload")
		return backend.File{}, uploadError(field, ErrUploadTypeNotAllowed, fmt.Sprintf("%s must be %s", field, kindDescription(kind)))
	}

	return backend.File{
		Field:       field,
		Name:        filepath.Base(header.Filename),
		ContentType: detected.String(),
		Content:     buf.Bytes(),
	}, nil
}

func allowedUpload(kind UploadKind, detected *mimetype.MIME) bool {
	switch kind {
	case UploadImage:
		return strings.HasPrefix(detected.String(), "image/")
	case UploadPDF:
		return detected.Is("application/pdf")
	default:
		return false
	}
}

func kindDescription(kind UploadKind) string {
	if kind == UploadPDF {
		return "a PDF document"
	}
	return "an image file"
}

func uploadError(field string, cause error, message string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}, Cause: cause}
}
