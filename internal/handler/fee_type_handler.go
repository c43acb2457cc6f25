package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/models"
	"github.com/noah-isme/school-console/internal/service"
)

// FeeTypeHandler serves the fee type screens.
type FeeTypeHandler struct {
	screens *service.Screens
	exports service.ExportService
	logger  zerolog.Logger
}

// NewFeeTypeHandler constructs the handler.
func NewFeeTypeHandler(screens *service.Screens, exports service.ExportService, logger zerolog.Logger) *FeeTypeHandler {
	return &FeeTypeHandler{
		screens: screens,
		exports: exports,
		logger:  logger.With().Str("component", "fee_type_handler").Logger(),
	}
}

// Register attaches the fee type routes to the router group.
func (h *FeeTypeHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/new", h.newForm)
	router.Get("/export.xlsx", h.export)
	router.Get("/:id/edit", h.editForm)
	router.Post("/:id", h.update)
	router.Get("/:id/delete", h.confirmDelete)
	router.Post("/:id/delete", h.delete)
}

func (h *FeeTypeHandler) load(c *fiber.Ctx) (*service.ListController[models.FeeType], error) {
	ctrl := h.screens.FeeTypeList()
	return ctrl, ctrl.Load(c.UserContext(), 1)
}

func (h *FeeTypeHandler) list(c *fiber.Ctx) error {
	ctrl, err := h.load(c)
	view := listView(c, ctrl, "Fee Types")
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("failed to list fee types")
		return render(c, errorStatus(err), "fees/types", view.Title, view)
	}
	return render(c, fiber.StatusOK, "fees/types", view.Title, view)
}

func (h *FeeTypeHandler) export(c *fiber.Ctx) error {
	ctrl, err := h.load(c)
	if err != nil {
		return failure(err, "Failed to fetch fee types")
	}
	view := listView(c, ctrl, "Fee Types")

	table := service.Table{Sheet: "Fee Types", Columns: []string{"ID", "Name", "Created"}}
	for _, feeType := range view.Items {
		table.Rows = append(table.Rows, []string{feeType.ID.String(), feeType.Name, models.FormatDate(feeType.CreatedAt)})
	}
	return sendWorkbook(c, h.exports, table, "fee-types.xlsx")
}

func feeTypeFormView(title, action string, mode service.FormMode, values dto.FeeTypeForm) dto.FormView[dto.FeeTypeForm] {
	return dto.FormView[dto.FeeTypeForm]{Title: title, Action: action, Mode: string(mode), Values: values}
}

func (h *FeeTypeHandler) newForm(c *fiber.Ctx) error {
	view := feeTypeFormView("Add Fee Type", "/fees/types", service.FormModeCreate, dto.FeeTypeForm{})
	return render(c, fiber.StatusOK, "fees/type_form", view.Title, view)
}

func (h *FeeTypeHandler) create(c *fiber.Ctx) error {
	var values dto.FeeTypeForm
	if err := c.BodyParser(&values); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	form := h.screens.FeeTypeCreateForm(values, nil)
	if err := form.Submit(c.UserContext()); err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("failed to create fee type")
		view := feeTypeFormView("Add Fee Type", "/fees/types", service.FormModeCreate, form.Values())
		view.Error = form.Error()
		view.FieldErrors = form.FieldErrors()
		return render(c, errorStatus(err), "fees/type_form", view.Title, view)
	}

	return done(c, "/fees/types", "Fee type created.")
}

func (h *FeeTypeHandler) editForm(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	feeType, err := h.screens.FeeTypes.Get(c.UserContext(), id)
	if err != nil {
		return failure(err, "Failed to fetch fee type")
	}

	view := feeTypeFormView("Edit Fee Type", "/fees/types/"+id.String(), service.FormModeEdit, dto.FeeTypeForm{Name: feeType.Name})
	return render(c, fiber.StatusOK, "fees/type_form", view.Title, view)
}

func (h *FeeTypeHandler) update(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var values dto.FeeTypeForm
	if err := c.BodyParser(&values); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	form := h.screens.FeeTypeEditForm(id, values, nil)
	if err := form.Submit(c.UserContext()); err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Str("fee_type_id", id.String()).Msg("failed to update fee type")
		view := feeTypeFormView("Edit Fee Type", "/fees/types/"+id.String(), service.FormModeEdit, form.Values())
		view.Error = form.Error()
		view.FieldErrors = form.FieldErrors()
		return render(c, errorStatus(err), "fees/type_form", view.Title, view)
	}

	return done(c, "/fees/types", "Fee type updated.")
}

func (h *FeeTypeHandler) confirmDelete(c *fiber.Ctx) error {
	if _, err := idParam(c); err != nil {
		return err
	}
	return confirmation(c, "Delete Fee Type", "Are you sure you want to delete this fee type?", "/fees/types", nil)
}

func (h *FeeTypeHandler) delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	if !confirmed(c) {
		return done(c, "/fees/types", "")
	}

	// the loaded page is kept so the deleted row can be dropped locally
	ctrl, loadErr := h.load(c)
	if loadErr != nil {
		requestLogger(h.logger, c).Warn().Err(loadErr).Msg("failed to load fee types before delete")
	}

	deleted, err := ctrl.Delete(c.UserContext(), id, service.Answer(true))
	if err != nil {
		return failure(err, "Failed to delete fee type")
	}
	if !deleted {
		return done(c, "/fees/types", "")
	}
	return afterListMutation(c, ctrl, "fees/types", "Fee Types", "/fees/types", "Fee type deleted.")
}
