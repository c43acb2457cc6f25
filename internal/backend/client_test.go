package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-console/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL + "/api/v1/", Timeout: 2 * time.Second, Token: "secret"}, zerolog.Nop())
	require.NoError(t, err)
	return client, server
}

func TestNewClientRejectsInvalidURL(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "localhost"}, zerolog.Nop())
	require.Error(t, err)
}

func TestDoDecodesEnvelopeAndPagination(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/students", r.URL.Path)
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status":"success","data":[{"id":1,"first_name":"Ada"}],"pagination":{"page":2,"limit":10,"total":11,"total_pages":2}}`)
	})

	var students []models.Student
	meta, err := client.Do(context.Background(), http.MethodGet, "/students", url.Values{"page": {"2"}}, nil, &students)
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.Equal(t, models.ID("1"), students[0].ID)
	require.NotNil(t, meta.Pagination)
	require.Equal(t, 2, meta.Pagination.PageCount())
}

func TestDoAcceptsBareArrays(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"teacher_id":"T-1","first_name":"Grace"}]`)
	})

	var teachers []models.Teacher
	_, err := client.Do(context.Background(), http.MethodGet, "/teachers", nil, nil, &teachers)
	require.NoError(t, err)
	require.Equal(t, models.ID("T-1"), teachers[0].ID)
}

func TestDoSurfacesServerMessageVerbatim(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/classes/9" {
			w.WriteHeader(http.StatusConflict)
			_, _ = io.WriteString(w, `{"error":"Class has enrolled students"}`)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"status":"error","message":"Email already exists"}`)
	})

	_, err := client.Do(context.Background(), http.MethodPost, "/students", nil, map[string]string{"email": "a@b.c"}, nil)
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, "Email already exists", ErrorMessage(err, "Failed to add student"))

	_, err = client.Do(context.Background(), http.MethodDelete, "/classes/9", nil, nil, nil)
	require.Equal(t, "Class has enrolled students", ErrorMessage(err, "Failed to delete class"))
	require.Equal(t, http.StatusConflict, StatusCode(err))
}

func TestDoTreatsErrorStatusInSuccessfulResponseAsAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"error","message":"Voucher already paid"}`)
	})

	_, err := client.Do(context.Background(), http.MethodPatch, "/fee/1/payment", nil, map[string]float64{"amount": 5}, nil)
	require.Equal(t, "Voucher already paid", ErrorMessage(err, "Payment failed"))
}

func TestDoTransportFailureFallsBackToGenericMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := server.URL
	server.Close()

	client, err := NewClient(Config{BaseURL: base, Timeout: time.Second}, zerolog.Nop())
	require.NoError(t, err)

	_, err = client.Do(context.Background(), http.MethodGet, "/students", nil, nil, nil)
	require.Error(t, err)
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	require.Equal(t, "Failed to fetch students", ErrorMessage(err, "Failed to fetch students"))
	require.Equal(t, http.StatusBadGateway, StatusCode(err))
}

func TestDoRejectsMalformedEnvelope(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status": 7}`)
	})

	_, err := client.Do(context.Background(), http.MethodGet, "/classes", nil, nil, nil)
	require.ErrorIs(t, err, ErrMalformedEnvelope)
}

func TestDoMultipartSendsFieldsAndFiles(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "Ada", r.FormValue("first_name"))
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "photo.png", header.Filename)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"status":"success","data":{"id":12}}`)
	})

	var created models.Student
	_, err := client.DoMultipart(context.Background(), http.MethodPost, "/students",
		map[string]string{"first_name": "Ada"},
		[]File{{Field: "image", Name: "photo.png", Content: []byte("\x89PNG\r\n\x1a\n")}, {Field: "pdf", Name: "empty.pdf"}},
		&created)
	require.NoError(t, err)
	require.Equal(t, models.ID("12"), created.ID)
}

func TestDownloadReturnsBlob(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/fee/4/pdf", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = io.WriteString(w, "%PDF-1.4\n%%EOF")
	})

	blob, err := client.Download(context.Background(), "/fee/4/pdf")
	require.NoError(t, err)
	require.Equal(t, "application/pdf", blob.ContentType)
	require.True(t, IsPDF(blob.Data))
}

func TestErrorMessageUsesUserMessenger(t *testing.T) {
	require.Equal(t, "", ErrorMessage(nil, "fallback"))
	require.Equal(t, "fallback", ErrorMessage(errors.New("boom"), "fallback"))
	require.Equal(t, "first name is required", ErrorMessage(messengerErr{}, "fallback"))
}

type messengerErr struct{}

func (messengerErr) Error() string       { return "validation failed" }
func (messengerErr) UserMessage() string { return "first name is required" }
