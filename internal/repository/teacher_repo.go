package repository

import (
	"context"
	"fmt"
	"net/http"

	"github.com/noah-isme/school-console/internal/backend"
	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/models"
)

// TeacherRepository provides access to teacher records on the backend.
type TeacherRepository interface {
	List(ctx context.Context) (dto.Page[models.Teacher], error)
	Get(ctx context.Context, id models.ID) (models.Teacher, error)
	Create(ctx context.Context, form dto.TeacherForm, files []backend.File) (models.Teacher, error)
	Delete(ctx context.Context, id models.ID) error
}

type teacherRepository struct {
	remote remoteRepository[models.Teacher]
}

// NewTeacherRepository constructs a teacher repository.
func NewTeacherRepository(client Backend) TeacherRepository {
	return &teacherRepository{remote: newRemoteRepository[models.Teacher](client, "teachers")}
}

func (r *teacherRepository) List(ctx context.Context) (dto.Page[models.Teacher], error) {
	return r.remote.list(ctx, nil)
}

func (r *teacherRepository) Get(ctx context.Context, id models.ID) (models.Teacher, error) {
	return r.remote.get(ctx, id)
}

func (r *teacherRepository) Create(ctx context.Context, form dto.TeacherForm, files []backend.File) (models.Teacher, error) {
	fields, err := dto.MultipartFields(form)
	if err != nil {
		return models.Teacher{}, fmt.Errorf("prepare teacher: %w", err)
	}

	var created models.Teacher
	_, err = r.remote.client.DoMultipart(ctx, http.MethodPost, r.remote.path(), fields, files, &created)
	return created, err
}

func (r *teacherRepository) Delete(ctx context.Context, id models.ID) error {
	return r.remote.delete(ctx, id)
}
