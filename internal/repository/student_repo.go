package repository

import (
	"context"
	"fmt"
	"net/http"

	"github.com/noah-isme/school-console/internal/backend"
	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/models"
)

// StudentRepository provides access to student records on the backend.
type StudentRepository interface {
	List(ctx context.Context, page int, classID models.ID) (dto.Page[models.Student], error)
	Get(ctx context.Context, id models.ID) (models.Student, error)
	Create(ctx context.Context, form dto.StudentForm, files []backend.File) (models.Student, error)
	UpdateStatus(ctx context.Context, id models.ID, status models.StudentStatus) (models.Student, error)
	Delete(ctx context.Context, id models.ID) error
}

type studentRepository struct {
	remote remoteRepository[models.Student]
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(client Backend) StudentRepository {
	return &studentRepository{remote: newRemoteRepository[models.Student](client, "students")}
}

func (r *studentRepository) List(ctx context.Context, page int, classID models.ID) (dto.Page[models.Student], error) {
	query := pageQuery(page, 0)
	if !classID.IsZero() {
		query.Set("class_id", classID.String())
	}
	return r.remote.list(ctx, query)
}

func (r *studentRepository) Get(ctx context.Context, id models.ID) (models.Student, error) {
	return r.remote.get(ctx, id)
}

func (r *studentRepository) Create(ctx context.Context, form dto.StudentForm, files []backend.File) (models.Student, error) {
	fields, err := dto.MultipartFields(form)
	if err != nil {
		return models.Student{}, fmt.Errorf("prepare student: %w", err)
	}

	var created models.Student
	_, err = r.remote.client.DoMultipart(ctx, http.MethodPost, r.remote.path(), fields, files, &created)
	return created, err
}

func (r *studentRepository) UpdateStatus(ctx context.Context, id models.ID, status models.StudentStatus) (models.Student, error) {
	return r.remote.update(ctx, http.MethodPatch, id, map[string]string{"status": string(status)}, "status")
}

func (r *studentRepository) Delete(ctx context.Context, id models.ID) error {
	return r.remote.delete(ctx, id)
}
