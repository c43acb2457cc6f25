package repository

import (
	"context"
	"net/http"

	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/models"
)

// FeeTypeRepository provides access to fee categories.
type FeeTypeRepository interface {
	List(ctx context.Context) (dto.Page[models.FeeType], error)
	Get(ctx context.Context, id models.ID) (models.FeeType, error)
	Create(ctx context.Context, form dto.FeeTypeForm) (models.FeeType, error)
	Update(ctx context.Context, id models.ID, form dto.FeeTypeForm) (models.FeeType, error)
	Delete(ctx context.Context, id models.ID) error
}

type feeTypeRepository struct {
	remote remoteRepository[models.FeeType]
}

// NewFeeTypeRepository constructs a fee type repository.
func NewFeeTypeRepository(client Backend) FeeTypeRepository {
	return &feeTypeRepository{remote: newRemoteRepository[models.FeeType](client, "fee-type")}
}

func (r *feeTypeRepository) List(ctx context.Context) (dto.Page[models.FeeType], error) {
	return r.remote.list(ctx, nil)
}

func (r *feeTypeRepository) Get(ctx context.Context, id models.ID) (models.FeeType, error) {
	return r.remote.get(ctx, id)
}

func (r *feeTypeRepository) Create(ctx context.Context, form dto.FeeTypeForm) (models.FeeType, error) {
	return r.remote.create(ctx, form)
}

func (r *feeTypeRepository) Update(ctx context.Context, id models.ID, form dto.FeeTypeForm) (models.FeeType, error) {
	return r.remote.update(ctx, http.MethodPatch, id, form)
}

func (r *feeTypeRepository) Delete(ctx context.Context, id models.ID) error {
	return r.remote.delete(ctx, id)
}
