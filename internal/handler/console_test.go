package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-console/internal/backend"
	"github.com/noah-isme/school-console/internal/handler"
	"github.com/noah-isme/school-console/internal/middleware"
	"github.com/noah-isme/school-console/internal/repository"
	"github.com/noah-isme/school-console/internal/service"
	"github.com/noah-isme/school-console/web"
)

type backendCall struct {
	Method      string
	Path        string
	Query       string
	ContentType string
	Body        string
}

type backendReply struct {
	Status      int
	ContentType string
	Body        string
}

// fakeSchool answers backend calls from a fixed table keyed by "METHOD /path".
type fakeSchool struct {
	mu      sync.Mutex
	replies map[string]backendReply
	calls   []backendCall
}

func (f *fakeSchool) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.calls = append(f.calls, backendCall{
		Method:      r.Method,
		Path:        r.URL.Path,
		Query:       r.URL.RawQuery,
		ContentType: r.Header.Get("Content-Type"),
		Body:        string(raw),
	})
	reply, ok := f.replies[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		reply = backendReply{Body: `{"status":"success","data":null}`}
	}
	if reply.ContentType == "" {
		reply.ContentType = "application/json"
	}
	if reply.Status == 0 {
		reply.Status = http.StatusOK
	}
	w.Header().Set("Content-Type", reply.ContentType)
	w.WriteHeader(reply.Status)
	_, _ = io.WriteString(w, reply.Body)
}

func (f *fakeSchool) Calls(method, path string) []backendCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []backendCall
	for _, call := range f.calls {
		if call.Method == method && call.Path == path {
			matched = append(matched, call)
		}
	}
	return matched
}

// All returns every call received so far.
func (f *fakeSchool) All() []backendCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]backendCall(nil), f.calls...)
}

type consoleApp struct {
	app    *fiber.App
	school *fakeSchool
}

func newConsoleApp(t *testing.T, replies map[string]string) *consoleApp {
	t.Helper()

	table := make(map[string]backendReply, len(replies))
	for key, body := range replies {
		table[key] = backendReply{Body: body}
	}
	return newConsoleAppWithReplies(t, table)
}

func newConsoleAppWithReplies(t *testing.T, replies map[string]backendReply) *consoleApp {
	t.Helper()

	school := &fakeSchool{replies: replies}
	server := httptest.NewServer(school)
	t.Cleanup(server.Close)

	logger := zerolog.New(io.Discard)
	client, err := backend.NewClient(backend.Config{BaseURL: server.URL, Timeout: 2 * time.Second}, logger)
	require.NoError(t, err)

	screens := &service.Screens{
		Students:   repository.NewStudentRepository(client),
		Teachers:   repository.NewTeacherRepository(client),
		Classes:    repository.NewClassRepository(client),
		FeeTypes:   repository.NewFeeTypeRepository(client),
		Vouchers:   repository.NewVoucherRepository(client),
		Attendance: repository.NewAttendanceRepository(client),
		Validation: service.NewValidation(),
		Logger:     logger,
	}
	uploads := service.NewUploadService(1, logger)
	exports := service.NewExportService(logger)

	app := fiber.New(fiber.Config{
		Views:        web.NewEngine(false),
		ErrorHandler: handler.ErrorHandler(logger),
	})
	middleware.Register(app, middleware.Config{Logger: &logger, DisableAccessLog: true})

	handler.NewStudentHandler(screens, uploads, exports, logger).Register(app.Group("/students"))
	handler.NewTeacherHandler(screens, uploads, exports, logger).Register(app.Group("/teachers"))
	handler.NewClassHandler(screens, exports, logger).Register(app.Group("/classes"))
	handler.NewFeeTypeHandler(screens, exports, logger).Register(app.Group("/fees/types"))
	handler.NewVoucherHandler(screens, exports, logger).Register(app.Group("/fees/vouchers"))
	handler.NewAttendanceHandler(screens, exports, logger).Register(app.Group("/attendance"))

	return &consoleApp{app: app, school: school}
}

func (a *consoleApp) do(t *testing.T, method, target, contentType, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (a *consoleApp) json(t *testing.T, method, target, body string) (*http.Response, map[string]interface{}) {
	t.Helper()

	contentType := ""
	if body != "" {
		contentType = fiber.MIMEApplicationJSON
	}
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Accept", fiber.MIMEApplicationJSON)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)

	var payload map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &payload), string(raw))
	return resp, payload
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}
