package repository

import (
	"context"
	"net/http"

	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/models"
)

// AttendanceRepository provides access to attendance records.
type AttendanceRepository interface {
	List(ctx context.Context, page, limit int) (dto.Page[models.AttendanceRecord], error)
	MarkClass(ctx context.Context, form dto.AttendanceForm) error
	UpdateStatus(ctx context.Context, id models.ID, status models.AttendanceStatus) (models.AttendanceRecord, error)
	Delete(ctx context.Context, id models.ID) error
}

type attendanceRepository struct {
	remote remoteRepository[models.AttendanceRecord]
}

// NewAttendanceRepository constructs an attendance repository.
func NewAttendanceRepository(client Backend) AttendanceRepository {
	return &attendanceRepository{remote: newRemoteRepository[models.AttendanceRecord](client, "attendance")}
}

func (r *attendanceRepository) List(ctx context.Context, page, limit int) (dto.Page[models.AttendanceRecord], error) {
	return r.remote.list(ctx, pageQuery(page, limit))
}

func (r *attendanceRepository) MarkClass(ctx context.Context, form dto.AttendanceForm) error {
	_, err := r.remote.client.Do(ctx, http.MethodPost, r.remote.path("class"), nil, form, nil)
	return err
}

func (r *attendanceRepository) UpdateStatus(ctx context.Context, id models.ID, status models.AttendanceStatus) (models.AttendanceRecord, error) {
	return r.remote.update(ctx, http.MethodPatch, id, map[string]string{"status": string(status)})
}

func (r *attendanceRepository) Delete(ctx context.Context, id models.ID) error {
	return r.remote.delete(ctx, id)
}
