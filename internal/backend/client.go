package backend

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/observability"
)

//go:embed schema/envelope.schema.json
var envelopeSchema string

const (
	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 16 << 20
)

// Config configures the backend client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Token   string
}

// Meta carries the envelope fields that sit next to data.
type Meta struct {
	StatusCode int
	Message    string
	Pagination *dto.Pagination
}

// File is one file part of a multipart request.
type File struct {
	Field       string
	Name        string
	ContentType string
	Content     []byte
}

// Blob is a binary download.
type Blob struct {
	ContentType string
	Data        []byte
}

// Client talks to the school REST backend. It never retries and never caches.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	schema  *jsonschema.Schema
	tracer  trace.Tracer
	logger  zerolog.Logger
}

// NewClient validates the configuration and builds a client.
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("envelope.schema.json", strings.NewReader(envelopeSchema)); err != nil {
		return nil, fmt.Errorf("load envelope schema: %w", err)
	}
	schema, err := compiler.Compile("envelope.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile envelope schema: %w", err)
	}

	return &Client{
		baseURL: base,
		token:   cfg.Token,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		schema: schema,
		tracer: otel.Tracer("github.com/noah-isme/school-console/internal/backend"),
		logger: logger.With().Str("component", "backend_client").Logger(),
	}, nil
}

// BaseURL returns the normalised backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends body as JSON and decodes the envelope data into out.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) (Meta, error) {
	var reader io.Reader
	contentType := ""
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return Meta{}, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}

	return c.send(ctx, method, path, query, reader, contentType, out)
}

// DoMultipart sends form fields and files as multipart/form-data.
func (c *Client) DoMultipart(ctx context.Context, method, path string, fields map[string]string, files []File, out interface{}) (Meta, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return Meta{}, fmt.Errorf("write field %s: %w", key, err)
		}
	}

	for _, file := range files {
		if len(file.Content) == 0 {
			continue
		}
		part, err := writer.CreateFormFile(file.Field, file.Name)
		if err != nil {
			return Meta{}, fmt.Errorf("create part %s: %w", file.Field, err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return Meta{}, fmt.Errorf("write part %s: %w", file.Field, err)
		}
	}

	if err := writer.Close(); err != nil {
		return Meta{}, fmt.Errorf("close multipart body: %w", err)
	}

	return c.send(ctx, method, path, nil, &buf, writer.FormDataContentType(), out)
}

// Download fetches a binary resource.
func (c *Client) Download(ctx context.Context, path string) (Blob, error) {
	ctx, span := c.tracer.Start(ctx, "backend.download", trace.WithAttributes(attribute.String("backend.path", path)))
	defer span.End()

	start := time.Now()
	resource := resourceOf(path)
	resp, err := c.roundTrip(ctx, http.MethodGet, path, nil, nil, "")
	if err != nil {
		c.observe(http.MethodGet, resource, "transport_error", start)
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		return Blob{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.observe(http.MethodGet, resource, "transport_error", start)
		return Blob{}, &TransportError{Method: http.MethodGet, Path: path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.observe(http.MethodGet, resource, "api_error", start)
		apiErr := c.apiError(http.MethodGet, path, resp.StatusCode, data)
		span.SetStatus(codes.Error, apiErr.Error())
		return Blob{}, apiErr
	}

	c.observe(http.MethodGet, resource, "ok", start)
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}
	return Blob{ContentType: contentType, Data: data}, nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out interface{}) (Meta, error) {
	ctx, span := c.tracer.Start(ctx, "backend."+strings.ToLower(method), trace.WithAttributes(
		attribute.String("backend.method", method),
		attribute.String("backend.path", path),
	))
	defer span.End()

	start := time.Now()
	resource := resourceOf(path)

	resp, err := c.roundTrip(ctx, method, path, query, body, contentType)
	if err != nil {
		c.observe(method, resource, "transport_error", start)
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		c.logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("backend call failed")
		return Meta{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.observe(method, resource, "transport_error", start)
		span.RecordError(err)
		return Meta{}, &TransportError{Method: method, Path: path, Err: err}
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("backend call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.observe(method, resource, "api_error", start)
		apiErr := c.apiError(method, path, resp.StatusCode, raw)
		span.SetStatus(codes.Error, apiErr.Error())
		return Meta{StatusCode: resp.StatusCode}, apiErr
	}

	meta, err := c.decode(method, path, resp.StatusCode, raw, out)
	if err != nil {
		c.observe(method, resource, "decode_error", start)
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failure")
		return meta, err
	}

	c.observe(method, resource, "ok", start)
	return meta, nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Response, error) {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if id := CorrelationIDFrom(ctx); id != "" {
		req.Header.Set("X-Correlation-ID", id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	return resp, nil
}

func (c *Client) decode(method, path string, statusCode int, raw []byte, out interface{}) (Meta, error) {
	meta := Meta{StatusCode: statusCode}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return meta, nil
	}

	// The teachers endpoint answers with a bare array.
	if trimmed[0] == '[' {
		if out == nil {
			return meta, nil
		}
		if err := json.Unmarshal(trimmed, out); err != nil {
			return meta, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
		}
		return meta, nil
	}

	var document interface{}
	if err := json.Unmarshal(trimmed, &document); err != nil {
		return meta, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if err := c.schema.Validate(document); err != nil {
		return meta, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	var envelope dto.Envelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		envelope = lenientEnvelope(document)
	}
	meta.Message = envelope.Message
	meta.Pagination = envelope.Pagination
	if meta.Pagination == nil && envelope.TotalPages > 0 {
		meta.Pagination = &dto.Pagination{TotalPages: envelope.TotalPages}
	}

	switch strings.ToLower(envelope.Status) {
	case "error", "fail", "failed":
		message := envelope.Message
		if message == "" {
			message = envelope.Error
		}
		return meta, &APIError{Method: method, Path: path, StatusCode: statusCode, Message: message}
	}

	if out == nil || len(envelope.Data) == 0 || bytes.Equal(envelope.Data, []byte("null")) {
		return meta, nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return meta, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	return meta, nil
}

func (c *Client) apiError(method, path string, statusCode int, raw []byte) *APIError {
	apiErr := &APIError{Method: method, Path: path, StatusCode: statusCode}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
	}
	return apiErr
}

func (c *Client) observe(method, resource, outcome string, start time.Time) {
	observability.BackendRequests().WithLabelValues(method, resource, outcome).Inc()
	observability.BackendLatency().WithLabelValues(method, resource).Observe(time.Since(start).Seconds())
}

// lenientEnvelope recovers an envelope whose paging numbers arrive as strings.
func lenientEnvelope(document interface{}) dto.Envelope {
	fields, _ := document.(map[string]interface{})
	envelope := dto.Envelope{}
	envelope.Status, _ = fields["status"].(string)
	envelope.Message, _ = fields["message"].(string)
	envelope.Error, _ = fields["error"].(string)
	if data, ok := fields["data"]; ok {
		envelope.Data, _ = json.Marshal(data)
	}
	envelope.TotalPages = toInt(fields["totalPages"])
	if paging, ok := fields["pagination"].(map[string]interface{}); ok {
		envelope.Pagination = &dto.Pagination{
			Page:       toInt(paging["page"]),
			Limit:      toInt(paging["limit"]),
			Total:      int64(toInt(paging["total"])),
			TotalPages: toInt(paging["total_pages"]),
		}
	}
	return envelope
}

func toInt(value interface{}) int {
	switch v := value.(type) {
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func resourceOf(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "root"
	}
	if idx := strings.IndexByte(trimmed, '/'); idx >= 0 {
		return trimmed[:idx]
	}
	return trimmed
}

// IsPDF reports whether data sniffs as a PDF document.
func IsPDF(data []byte) bool {
	return mimetype.Detect(data).Is("application/pdf")
}
