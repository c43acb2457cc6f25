package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/school-console/internal/backend"
	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/models"
	"github.com/noah-isme/school-console/internal/service"
)

// VoucherHandler serves the fee voucher screens.
type VoucherHandler struct {
	screens *service.Screens
	exports service.ExportService
	logger  zerolog.Logger
}

// NewVoucherHandler constructs the handler.
func NewVoucherHandler(screens *service.Screens, exports service.ExportService, logger zerolog.Logger) *VoucherHandler {
	return &VoucherHandler{
		screens: screens,
		exports: exports,
		logger:  logger.With().Str("component", "voucher_handler").Logger(),
	}
}

// Register attaches the voucher routes to the router group.
func (h *VoucherHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/new", h.newForm)
	router.Get("/export.xlsx", h.export)
	router.Get("/:id/pdf", h.pdf)
	router.Get("/:id/payment", h.paymentForm)
	router.Post("/:id/payment", h.recordPayment)
	router.Get("/:id/items", h.itemForm)
	router.Post("/:id/items", h.addItem)
	router.Get("/:id/delete", h.confirmDelete)
	router.Post("/:id/delete", h.delete)
}

func (h *VoucherHandler) load(c *fiber.Ctx) (*service.ListController[models.FeeVoucher], error) {
	ctrl := h.screens.VoucherList()
	return ctrl, ctrl.Load(c.UserContext(), pageParam(c))
}

func (h *VoucherHandler) list(c *fiber.Ctx) error {
	ctrl, err := h.load(c)
	view := listView(c, ctrl, "Fee Vouchers")
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("failed to list vouchers")
		return render(c, errorStatus(err), "fees/vouchers", view.Title, view)
	}
	return render(c, fiber.StatusOK, "fees/vouchers", view.Title, view)
}

func (h *VoucherHandler) export(c *fiber.Ctx) error {
	ctrl, err := h.load(c)
	if err != nil {
		return failure(err, "Failed to fetch fee vouchers")
	}
	view := listView(c, ctrl, "Fee Vouchers")

	table := service.Table{
		Sheet:   "Fee Vouchers",
		Columns: []string{"ID", "Student", "Due Date", "Total", "Paid", "Remaining", "Status"},
	}
	for _, v := range view.Items {
		table.Rows = append(table.Rows, []string{
			v.ID.String(), models.OrNA(v.StudentName), models.FormatDate(v.DueDate),
			models.FormatMoney(v.TotalAmount), models.FormatMoney(v.PaidAmount), models.FormatMoney(v.Remaining()),
			string(v.EffectiveStatus()),
		})
	}
	return sendWorkbook(c, h.exports, table, "fee-vouchers.xlsx")
}

func voucherFormView(values dto.VoucherForm) dto.FormView[dto.VoucherForm] {
	return dto.FormView[dto.VoucherForm]{
		Title:  "Create Voucher",
		Action: "/fees/vouchers",
		Mode:   string(service.FormModeCreate),
		Values: values,
	}
}

func (h *VoucherHandler) newForm(c *fiber.Ctx) error {
	view := voucherFormView(dto.VoucherForm{StudentID: c.Query("student_id")})
	return render(c, fiber.StatusOK, "fees/voucher_form", view.Title, view)
}

func (h *VoucherHandler) create(c *fiber.Ctx) error {
	var values dto.VoucherForm
	if err := c.BodyParser(&values); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	form := h.screens.VoucherForm(values, nil)
	if err := form.Submit(c.UserContext()); err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("failed to create voucher")
		view := voucherFormView(form.Values())
		view.Error = form.Error()
		view.FieldErrors = form.FieldErrors()
		return render(c, errorStatus(err), "fees/voucher_form", view.Title, view)
	}

	return done(c, "/fees/vouchers", "Voucher created.")
}

func (h *VoucherHandler) pdf(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	blob, err := h.screens.Vouchers.PDF(c.UserContext(), id)
	if err == nil && !backend.IsPDF(blob.Data) {
		err = backend.ErrNotPDF
	}
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Str("voucher_id", id.String()).Msg("failed to download voucher pdf")
		return failure(err, "Failed to download voucher PDF")
	}

	c.Attachment(fmt.Sprintf("voucher-%s.pdf", id))
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(blob.Data)
}

func paymentFormView(voucher models.FeeVoucher, values dto.PaymentForm, page int) dto.FormView[dto.PaymentForm] {
	return dto.FormView[dto.PaymentForm]{
		Title:   "Record Payment",
		Action:  fmt.Sprintf("/fees/vouchers/%s/payment?page=%d", voucher.ID, page),
		Mode:    string(service.FormModeEdit),
		Values:  values,
		Options: dto.FormOptions{Voucher: &voucher},
	}
}

func (h *VoucherHandler) paymentForm(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	page := pageParam(c)
	voucher, err := h.screens.FindVoucher(c.UserContext(), id, page)
	if err != nil {
		return failure(err, "Failed to fetch voucher")
	}

	values := dto.PaymentForm{Amount: voucher.Remaining(), Remaining: voucher.Remaining()}
	view := paymentFormView(voucher, values, page)
	return render(c, fiber.StatusOK, "fees/payment_form", view.Title, view)
}

func (h *VoucherHandler) recordPayment(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var values dto.PaymentForm
	if err := c.BodyParser(&values); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	page := pageParam(c)
	voucher, err := h.screens.FindVoucher(c.UserContext(), id, page)
	if err != nil {
		return failure(err, "Failed to fetch voucher")
	}

	form := h.screens.PaymentForm(voucher, values.Amount, nil)
	if err := form.Submit(c.UserContext()); err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Str("voucher_id", id.String()).Msg("payment failed")
		view := paymentFormView(voucher, form.Values(), page)
		view.Error = form.Error()
		view.FieldErrors = form.FieldErrors()
		return render(c, errorStatus(err), "fees/payment_form", view.Title, view)
	}

	return done(c, fmt.Sprintf("/fees/vouchers?page=%d", page), "Payment recorded.")
}

func (h *VoucherHandler) itemFormView(c *fiber.Ctx, id models.ID, values dto.FeeItemForm) dto.FormView[dto.FeeItemForm] {
	view := dto.FormView[dto.FeeItemForm]{
		Title:  "Add Fee Item",
		Action: fmt.Sprintf("/fees/vouchers/%s/items", id),
		Mode:   string(service.FormModeCreate),
		Values: values,
	}
	feeTypes, err := h.screens.FeeTypes.List(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("failed to load fee types for item form")
	} else {
		view.Options.FeeTypes = feeTypes.Items
	}
	return view
}

func (h *VoucherHandler) itemForm(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	view := h.itemFormView(c, id, dto.FeeItemForm{VoucherID: id.String()})
	return render(c, fiber.StatusOK, "fees/item_form", view.Title, view)
}

func (h *VoucherHandler) addItem(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var values dto.FeeItemForm
	if err := c.BodyParser(&values); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	values.VoucherID = id.String()

	form := h.screens.FeeItemForm(values, nil)
	if err := form.Submit(c.UserContext()); err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Str("voucher_id", id.String()).Msg("failed to add fee item")
		view := h.itemFormView(c, id, form.Values())
		view.Error = form.Error()
		view.FieldErrors = form.FieldErrors()
		return render(c, errorStatus(err), "fees/item_form", view.Title, view)
	}

	return done(c, "/fees/vouchers", "Fee item added.")
}

func (h *VoucherHandler) confirmDelete(c *fiber.Ctx) error {
	if _, err := idParam(c); err != nil {
		return err
	}
	return confirmation(c, "Delete Voucher", "Are you sure you want to delete this fee voucher?",
		"/fees/vouchers", map[string]string{"page": c.Query("page", "1")})
}

func (h *VoucherHandler) delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	if !confirmed(c) {
		return done(c, "/fees/vouchers", "")
	}

	// the loaded page is kept so the deleted row can be dropped locally
	ctrl, loadErr := h.load(c)
	if loadErr != nil {
		requestLogger(h.logger, c).Warn().Err(loadErr).Msg("failed to load vouchers before delete")
	}

	deleted, err := ctrl.Delete(c.UserContext(), id, service.Answer(true))
	if err != nil {
		return failure(err, "Failed to delete voucher")
	}
	if !deleted {
		return done(c, "/fees/vouchers", "")
	}
	return afterListMutation(c, ctrl, "fees/vouchers", "Fee Vouchers",
		fmt.Sprintf("/fees/vouchers?page=%d", ctrl.CurrentPage()), "Voucher deleted.")
}
