package repository

import (
	"context"
	"net/http"

	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/models"
)

// ClassRepository provides access to classes and their sections.
type ClassRepository interface {
	List(ctx context.Context) (dto.Page[models.Class], error)
	Get(ctx context.Context, id models.ID) (models.Class, error)
	Create(ctx context.Context, form dto.ClassForm) (models.Class, error)
	Update(ctx context.Context, id models.ID, form dto.ClassForm) (models.Class, error)
	Delete(ctx context.Context, id models.ID) error
}

type classRepository struct {
	remote remoteRepository[models.Class]
}

// NewClassRepository constructs a class repository.
func NewClassRepository(client Backend) ClassRepository {
	return &classRepository{remote: newRemoteRepository[models.Class](client, "classes")}
}

func (r *classRepository) List(ctx context.Context) (dto.Page[models.Class], error) {
	return r.remote.list(ctx, nil)
}

func (r *classRepository) Get(ctx context.Context, id models.ID) (models.Class, error) {
	return r.remote.get(ctx, id)
}

func (r *classRepository) Create(ctx context.Context, form dto.ClassForm) (models.Class, error) {
	return r.remote.create(ctx, form)
}

func (r *classRepository) Update(ctx context.Context, id models.ID, form dto.ClassForm) (models.Class, error) {
	return r.remote.update(ctx, http.MethodPut, id, form)
}

func (r *classRepository) Delete(ctx context.Context, id models.ID) error {
	return r.remote.delete(ctx, id)
}
