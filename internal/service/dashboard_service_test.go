package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-console/internal/backend"
	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/models"
)

type fakeStudents struct {
	calls int
	total int64
}

func (f *fakeStudents) List(context.Context, int, models.ID) (dto.Page[models.Student], error) {
	f.calls++
	return dto.Page[models.Student]{Items: []models.Student{{ID: "1"}}, Pagination: dto.Pagination{Page: 1, Total: f.total}}, nil
}
func (f *fakeStudents) Get(context.Context, models.ID) (models.Student, error) {
	return models.Student{}, nil
}
func (f *fakeStudents) Create(context.Context, dto.StudentForm, []backend.File) (models.Student, error) {
	return models.Student{}, nil
}
func (f *fakeStudents) UpdateStatus(context.Context, models.ID, models.StudentStatus) (models.Student, error) {
	return models.Student{}, nil
}
func (f *fakeStudents) Delete(context.Context, models.ID) error { return nil }

type fakeClasses struct{ items []models.Class }

func (f *fakeClasses) List(context.Context) (dto.Page[models.Class], error) {
	return dto.SinglePage(f.items), nil
}
func (f *fakeClasses) Get(context.Context, models.ID) (models.Class, error) {
	return models.Class{}, nil
}
func (f *fakeClasses) Create(context.Context, dto.ClassForm) (models.Class, error) {
	return models.Class{}, nil
}
func (f *fakeClasses) Update(context.Context, models.ID, dto.ClassForm) (models.Class, error) {
	return models.Class{}, nil
}
func (f *fakeClasses) Delete(context.Context, models.ID) error { return nil }

type fakeAttendance struct {
	records []models.AttendanceRecord
	// pageSize splits records into pages when set.
	pageSize int
	fetched  []int
}

func (f *fakeAttendance) List(_ context.Context, page, _ int) (dto.Page[models.AttendanceRecord], error) {
	f.fetched = append(f.fetched, page)
	if f.pageSize == 0 {
		return dto.SinglePage(f.records), nil
	}
	start := (page - 1) * f.pageSize
	if start > len(f.records) {
		start = len(f.records)
	}
	end := start + f.pageSize
	if end > len(f.records) {
		end = len(f.records)
	}
	return dto.Page[models.AttendanceRecord]{
		Items:      f.records[start:end],
		Pagination: dto.Pagination{Page: page, Limit: f.pageSize, Total: int64(len(f.records))},
	}, nil
}
func (f *fakeAttendance) MarkClass(context.Context, dto.AttendanceForm) error { return nil }
func (f *fakeAttendance) UpdateStatus(context.Context, models.ID, models.AttendanceStatus) (models.AttendanceRecord, error) {
	return models.AttendanceRecord{}, nil
}
func (f *fakeAttendance) Delete(context.Context, models.ID) error { return nil }

func TestDashboardServiceComputesAndCachesStats(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	students := &fakeStudents{total: 42}
	attendance := &fakeAttendance{records: []models.AttendanceRecord{
		{AttendanceDate: "2024-05-01", Status: models.AttendancePresent},
		{AttendanceDate: "2024-05-01T00:00:00Z", Status: models.AttendancePresent},
		{AttendanceDate: "2024-05-01", Status: models.AttendanceAbsent},
		{AttendanceDate: "2024-04-30", Status: models.AttendanceAbsent},
	}}
	svc := NewDashboardService(students, &fakeClasses{items: []models.Class{{ID: "1"}, {ID: "2"}}}, attendance, client, time.Minute, testLogger())
	svc.(*dashboardService).now = func() time.Time { return now }

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(42), stats.TotalStudents)
	require.Equal(t, 2, stats.ActiveClasses)
	require.Equal(t, 3, stats.AttendanceRecorded)
	require.InDelta(t, 66.7, stats.AttendanceToday, 0.001)
	require.Equal(t, 1, students.calls)

	_, err = svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, students.calls, "second call should hit the cache")

	svc.Invalidate(context.Background())
	_, err = svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, students.calls)
}

func TestDashboardServiceWithoutCache(t *testing.T) {
	students := &fakeStudents{}
	svc := NewDashboardService(students, &fakeClasses{}, &fakeAttendance{}, nil, time.Minute, testLogger())

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.TotalStudents, "falls back to the page length")
	require.Zero(t, stats.AttendanceToday)
	svc.Invalidate(context.Background())
}

func TestDashboardServiceCountsEveryAttendancePage(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	records := make([]models.AttendanceRecord, 0, 5)
	for i := 0; i < 4; i++ {
		records = append(records, models.AttendanceRecord{AttendanceDate: "2024-05-01", Status: models.AttendancePresent})
	}
	records = append(records, models.AttendanceRecord{AttendanceDate: "2024-05-01", Status: models.AttendanceAbsent})
	attendance := &fakeAttendance{records: records, pageSize: 2}

	svc := NewDashboardService(&fakeStudents{}, &fakeClasses{}, attendance, nil, time.Minute, testLogger())
	svc.(*dashboardService).now = func() time.Time { return now }

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, attendance.fetched)
	require.Equal(t, 5, stats.AttendanceRecorded)
	require.InDelta(t, 80.0, stats.AttendanceToday, 0.001)
}
