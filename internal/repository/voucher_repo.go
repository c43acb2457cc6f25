package repository

import (
	"context"
	"net/http"

	"github.com/noah-isme/school-console/internal/backend"
	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/models"
)

// VoucherRepository provides access to fee vouchers, their items and payments.
type VoucherRepository interface {
	List(ctx context.Context, page, limit int) (dto.Page[models.FeeVoucher], error)
	Create(ctx context.Context, form dto.VoucherForm) (models.FeeVoucher, error)
	Delete(ctx context.Context, id models.ID) error
	RecordPayment(ctx context.Context, id models.ID, amount float64) (models.FeeVoucher, error)
	AddItem(ctx context.Context, form dto.FeeItemForm) (models.FeeItem, error)
	PDF(ctx context.Context, id models.ID) (backend.Blob, error)
}

type voucherRepository struct {
	remote remoteRepository[models.FeeVoucher]
}

// NewVoucherRepository constructs a voucher repository.
func NewVoucherRepository(client Backend) VoucherRepository {
	return &voucherRepository{remote: newRemoteRepository[models.FeeVoucher](client, "fee")}
}

func (r *voucherRepository) List(ctx context.Context, page, limit int) (dto.Page[models.FeeVoucher], error) {
	return r.remote.list(ctx, pageQuery(page, limit))
}

func (r *voucherRepository) Create(ctx context.Context, form dto.VoucherForm) (models.FeeVoucher, error) {
	return r.remote.create(ctx, form)
}

func (r *voucherRepository) Delete(ctx context.Context, id models.ID) error {
	return r.remote.delete(ctx, id)
}

func (r *voucherRepository) RecordPayment(ctx context.Context, id models.ID, amount float64) (models.FeeVoucher, error) {
	return r.remote.update(ctx, http.MethodPatch, id, map[string]float64{"amount": amount}, "payment")
}

func (r *voucherRepository) AddItem(ctx context.Context, form dto.FeeItemForm) (models.FeeItem, error) {
	var item models.FeeItem
	_, err := r.remote.client.Do(ctx, http.MethodPost, r.remote.path("details"), nil, form, &item)
	return item, err
}

func (r *voucherRepository) PDF(ctx context.Context, id models.ID) (backend.Blob, error) {
	return r.remote.client.Download(ctx, r.remote.path(id.String(), "pdf"))
}
