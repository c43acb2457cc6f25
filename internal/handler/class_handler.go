package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/models"
	"github.com/noah-isme/school-console/internal/service"
)

// ClassHandler serves the class screens.
type ClassHandler struct {
	screens *service.Screens
	exports service.ExportService
	logger  zerolog.Logger
}

// NewClassHandler constructs the handler.
func NewClassHandler(screens *service.Screens, exports service.ExportService, logger zerolog.Logger) *ClassHandler {
	return &ClassHandler{
		screens: screens,
		exports: exports,
		logger:  logger.With().Str("component", "class_handler").Logger(),
	}
}

// Register attaches the class routes to the router group.
func (h *ClassHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/new", h.newForm)
	router.Get("/export.xlsx", h.export)
	router.Get("/:id/edit", h.editForm)
	router.Post("/:id", h.update)
	router.Get("/:id/delete", h.confirmDelete)
	router.Post("/:id/delete", h.delete)
}

func (h *ClassHandler) load(c *fiber.Ctx) (*service.ListController[models.Class], error) {
	ctrl := h.screens.ClassList()
	return ctrl, ctrl.Load(c.UserContext(), 1)
}

func (h *ClassHandler) list(c *fiber.Ctx) error {
	ctrl, err := h.load(c)
	view := listView(c, ctrl, "Classes")
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("failed to list classes")
		return render(c, errorStatus(err), "classes/index", view.Title, view)
	}
	return render(c, fiber.StatusOK, "classes/index", view.Title, view)
}

func (h *ClassHandler) export(c *fiber.Ctx) error {
	ctrl, err := h.load(c)
	if err != nil {
		return failure(err, "Failed to fetch classes")
	}
	view := listView(c, ctrl, "Classes")

	table := service.Table{Sheet: "Classes", Columns: []string{"ID", "Class", "Sections", "Section Count"}}
	for _, class := range view.Items {
		table.Rows = append(table.Rows, []string{
			class.ID.String(), class.ClassName, models.OrNA(class.SectionList()), strconv.Itoa(len(class.Sections)),
		})
	}
	return sendWorkbook(c, h.exports, table, "classes.xlsx")
}

func classFormView(title, action string, mode service.FormMode, values dto.ClassForm) dto.FormView[dto.ClassForm] {
	if values.SectionsText == "" && len(values.Sections) > 0 {
		values.SectionsText = joinLines(values.Sections)
	}
	return dto.FormView[dto.ClassForm]{Title: title, Action: action, Mode: string(mode), Values: values}
}

func (h *ClassHandler) newForm(c *fiber.Ctx) error {
	view := classFormView("Add Class", "/classes", service.FormModeCreate, dto.ClassForm{})
	return render(c, fiber.StatusOK, "classes/form", view.Title, view)
}

// parseClassForm reads the class name and the submitted section list. HTML
// forms send one section per line, JSON clients send an array.
func parseClassForm(c *fiber.Ctx) (dto.ClassForm, error) {
	var values dto.ClassForm
	if err := c.BodyParser(&values); err != nil {
		return values, fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if values.SectionsText != "" {
		values.Sections = dto.ParseList(values.SectionsText)
	}
	return values, nil
}

func (h *ClassHandler) create(c *fiber.Ctx) error {
	values, err := parseClassForm(c)
	if err != nil {
		return err
	}
	draft := dto.NewSectionDraft(nil)
	draft.Replace(values.Sections)
	draft.Apply(&values)

	form := h.screens.ClassCreateForm(values, nil)
	if err := form.Submit(c.UserContext()); err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("failed to create class")
		view := classFormView("Add Class", "/classes", service.FormModeCreate, form.Values())
		view.Error = form.Error()
		view.FieldErrors = form.FieldErrors()
		return render(c, errorStatus(err), "classes/form", view.Title, view)
	}

	return done(c, "/classes", "Class created successfully.")
}

func (h *ClassHandler) editForm(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	class, err := h.screens.Classes.Get(c.UserContext(), id)
	if err != nil {
		return failure(err, "Failed to fetch class")
	}

	values := dto.ClassForm{ClassName: class.ClassName, Sections: class.SectionNames()}
	view := classFormView("Edit Class", "/classes/"+id.String(), service.FormModeEdit, values)
	return render(c, fiber.StatusOK, "classes/form", view.Title, view)
}

func (h *ClassHandler) update(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	values, err := parseClassForm(c)
	if err != nil {
		return err
	}

	if err := h.screens.Validation.Struct(values); err != nil {
		view := classFormView("Edit Class", "/classes/"+id.String(), service.FormModeEdit, values)
		formFailure(&view, err, "Failed to save class")
		return render(c, errorStatus(err), "classes/form", view.Title, view)
	}

	// Sections that disappeared from the submitted list are queued for deletion.
	class, err := h.screens.Classes.Get(c.UserContext(), id)
	if err != nil {
		return failure(err, "Failed to fetch class")
	}
	draft := dto.NewSectionDraft(class.SectionNames())
	draft.Replace(values.Sections)
	draft.Apply(&values)

	form := h.screens.ClassEditForm(id, values, nil)
	if err := form.Submit(c.UserContext()); err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Str("class_id", id.String()).Msg("failed to update class")
		view := classFormView("Edit Class", "/classes/"+id.String(), service.FormModeEdit, form.Values())
		view.Error = form.Error()
		view.FieldErrors = form.FieldErrors()
		return render(c, errorStatus(err), "classes/form", view.Title, view)
	}

	return done(c, "/classes", "Class updated successfully.")
}

func (h *ClassHandler) confirmDelete(c *fiber.Ctx) error {
	if _, err := idParam(c); err != nil {
		return err
	}
	return confirmation(c, "Delete Class", "Are you sure you want to delete this class?", "/classes", nil)
}

func (h *ClassHandler) delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	ctrl := h.screens.ClassList()
	deleted, err := ctrl.Delete(c.UserContext(), id, service.Answer(confirmed(c)))
	if err != nil {
		return failure(err, "Failed to delete class")
	}
	if !deleted {
		return done(c, "/classes", "")
	}
	return afterListMutation(c, ctrl, "classes/index", "Classes", "/classes", "Class deleted.")
}
