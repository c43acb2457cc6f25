package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-console/internal/backend"
	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/models"
)

type recordedCall struct {
	Method string
	Path   string
	Query  string
	Body   map[string]interface{}
}

func newFakeBackend(t *testing.T, responses map[string]string) (*backend.Client, *[]recordedCall) {
	t.Helper()
	calls := &[]recordedCall{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := recordedCall{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
		if r.Header.Get("Content-Type") == "application/json" {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &call.Body)
		}
		*calls = append(*calls, call)

		body, ok := responses[r.Method+" "+r.URL.Path]
		if !ok {
			body = `{"status":"success","data":null}`
		}
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)

	client, err := backend.NewClient(backend.Config{BaseURL: server.URL, Timeout: time.Second}, zerolog.Nop())
	require.NoError(t, err)
	return client, calls
}

func TestStudentRepositoryListPassesPageAndClass(t *testing.T) {
	client, calls := newFakeBackend(t, map[string]string{
		"GET /students": `{"status":"success","data":[{"id":1},{"id":2}],"pagination":{"page":1,"limit":2,"total":5}}`,
	})
	repo := NewStudentRepository(client)

	page, err := repo.List(context.Background(), 1, "7")
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.Equal(t, 3, page.Pagination.PageCount())
	require.Equal(t, "class_id=7&page=1", (*calls)[0].Query)
}

func TestStudentRepositoryUpdateStatusPatches(t *testing.T) {
	client, calls := newFakeBackend(t, nil)
	repo := NewStudentRepository(client)

	_, err := repo.UpdateStatus(context.Background(), "3", models.StudentStatusSuspended)
	require.NoError(t, err)
	require.Equal(t, http.MethodPatch, (*calls)[0].Method)
	require.Equal(t, "/students/3/status", (*calls)[0].Path)
	require.Equal(t, "suspended", (*calls)[0].Body["status"])
}

func TestTeacherRepositoryListWrapsBareArray(t *testing.T) {
	client, _ := newFakeBackend(t, map[string]string{
		"GET /teachers": `[{"teacher_id":1,"first_name":"Grace"}]`,
	})
	repo := NewTeacherRepository(client)

	page, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, 1, page.Pagination.PageCount())
}

func TestClassRepositoryUpdateUsesPut(t *testing.T) {
	client, calls := newFakeBackend(t, nil)
	repo := NewClassRepository(client)

	_, err := repo.Update(context.Background(), "4", dto.ClassForm{ClassName: "Grade 4", Sections: []string{"A"}, SectionsToDelete: []string{"B"}})
	require.NoError(t, err)
	require.Equal(t, http.MethodPut, (*calls)[0].Method)
	require.Equal(t, "/classes/4", (*calls)[0].Path)
	require.Equal(t, []interface{}{"B"}, (*calls)[0].Body["sections_to_delete"])
}

func TestVoucherRepositoryPaymentAndItems(t *testing.T) {
	client, calls := newFakeBackend(t, nil)
	repo := NewVoucherRepository(client)
	ctx := context.Background()

	_, err := repo.RecordPayment(ctx, "11", 250)
	require.NoError(t, err)
	_, err = repo.AddItem(ctx, dto.FeeItemForm{VoucherID: "11", FeeTypeID: "2", Amount: 40})
	require.NoError(t, err)

	require.Equal(t, "/fee/11/payment", (*calls)[0].Path)
	require.Equal(t, float64(250), (*calls)[0].Body["amount"])
	require.Equal(t, "/fee/details", (*calls)[1].Path)
	require.Equal(t, http.MethodPost, (*calls)[1].Method)
}

func TestAttendanceRepositoryMarkClassSendsBulkPayload(t *testing.T) {
	client, calls := newFakeBackend(t, nil)
	repo := NewAttendanceRepository(client)

	form := dto.NewAttendanceForm("5", "2024-03-01", []models.Student{{ID: "1"}})
	require.NoError(t, repo.MarkClass(context.Background(), form))

	call := (*calls)[0]
	require.Equal(t, "/attendance/class", call.Path)
	require.Equal(t, float64(5), call.Body["class_id"])
	records := call.Body["attendance_records"].([]interface{})
	require.Len(t, records, 1)
	require.Equal(t, "present", records[0].(map[string]interface{})["status"])
}

func TestFeeTypeRepositoryDelete(t *testing.T) {
	client, calls := newFakeBackend(t, nil)
	repo := NewFeeTypeRepository(client)

	require.NoError(t, repo.Delete(context.Background(), "8"))
	require.Equal(t, http.MethodDelete, (*calls)[0].Method)
	require.Equal(t, "/fee-type/8", (*calls)[0].Path)
}
