package service

import (
	"context"

	"github.com/noah-isme/school-console/internal/backend"
	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/models"
)

type stubFeeTypes struct{}

func (stubFeeTypes) List(context.Context) (dto.Page[models.FeeType], error) {
	return dto.SinglePage([]models.FeeType{}), nil
}

func (stubFeeTypes) Get(_ context.Context, id models.ID) (models.FeeType, error) {
	return models.FeeType{ID: id}, nil
}

func (stubFeeTypes) Create(_ context.Context, form dto.FeeTypeForm) (models.FeeType, error) {
	return models.FeeType{ID: "10", Name: form.Name}, nil
}

func (stubFeeTypes) Update(_ context.Context, id models.ID, form dto.FeeTypeForm) (models.FeeType, error) {
	return models.FeeType{ID: id, Name: form.Name}, nil
}

func (stubFeeTypes) Delete(context.Context, models.ID) error {
	return nil
}

type stubVouchers struct {
	payments int
	pages    map[int][]models.FeeVoucher
	total    int
}

func (s *stubVouchers) List(_ context.Context, page, _ int) (dto.Page[models.FeeVoucher], error) {
	return dto.Page[models.FeeVoucher]{Items: s.pages[page], Pagination: dto.Pagination{Page: page, TotalPages: s.total}}, nil
}

func (s *stubVouchers) Create(context.Context, dto.VoucherForm) (models.FeeVoucher, error) {
	return models.FeeVoucher{ID: "1"}, nil
}

func (s *stubVouchers) Delete(context.Context, models.ID) error {
	return nil
}

func (s *stubVouchers) RecordPayment(_ context.Context, id models.ID, _ float64) (models.FeeVoucher, error) {
	s.payments++
	return models.FeeVoucher{ID: id}, nil
}

func (s *stubVouchers) AddItem(context.Context, dto.FeeItemForm) (models.FeeItem, error) {
	return models.FeeItem{ID: "1"}, nil
}

func (s *stubVouchers) PDF(context.Context, models.ID) (backend.Blob, error) {
	return backend.Blob{ContentType: "application/pdf", Data: []byte("%PDF-1.4")}, nil
}
