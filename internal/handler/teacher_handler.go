package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/school-console/internal/backend"
	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/models"
	"github.com/noah-isme/school-console/internal/service"
)

// TeacherHandler serves the teacher screens.
type TeacherHandler struct {
	screens *service.Screens
	uploads service.UploadService
	exports service.ExportService
	logger  zerolog.Logger
}

// NewTeacherHandler constructs the handler.
func NewTeacherHandler(screens *service.Screens, uploads service.UploadService, exports service.ExportService, logger zerolog.Logger) *TeacherHandler {
	return &TeacherHandler{
		screens: screens,
		uploads: uploads,
		exports: exports,
		logger:  logger.With().Str("component", "teacher_handler").Logger(),
	}
}

// Register attaches the teacher routes to the router group.
func (h *TeacherHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/new", h.newForm)
	router.Get("/export.xlsx", h.export)
	router.Get("/:id", h.detail)
	router.Get("/:id/delete", h.confirmDelete)
	router.Post("/:id/delete", h.delete)
}

func (h *TeacherHandler) load(c *fiber.Ctx) (*service.ListController[models.Teacher], error) {
	ctrl := h.screens.TeacherList()
	return ctrl, ctrl.Load(c.UserContext(), 1)
}

func (h *TeacherHandler) list(c *fiber.Ctx) error {
	ctrl, err := h.load(c)
	view := listView(c, ctrl, "Teachers")
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("failed to list teachers")
		return render(c, errorStatus(err), "teachers/index", view.Title, view)
	}
	return render(c, fiber.StatusOK, "teachers/index", view.Title, view)
}

func (h *TeacherHandler) export(c *fiber.Ctx) error {
	ctrl, err := h.load(c)
	if err != nil {
		return failure(err, "Failed to fetch teachers")
	}
	view := listView(c, ctrl, "Teachers")

	table := service.Table{
		Sheet:   "Teachers",
		Columns: []string{"ID", "Name", "Email", "Phone", "Employment", "Subjects", "Experience", "Hire Date"},
	}
	for _, t := range view.Items {
		table.Rows = append(table.Rows, []string{
			t.ID.String(), t.FullName(), t.Email, models.OrNA(t.Phone), string(t.EmploymentStatus),
			models.OrNA(t.Subjects()), strconv.Itoa(t.YearsOfExperience), models.FormatDate(t.HireDate),
		})
	}
	return sendWorkbook(c, h.exports, table, "teachers.xlsx")
}

func (h *TeacherHandler) formView(values dto.TeacherForm) dto.FormView[dto.TeacherForm] {
	return dto.FormView[dto.TeacherForm]{
		Title:   "Add Teacher",
		Action:  "/teachers",
		Mode:    string(service.FormModeCreate),
		Values:  values,
		Options: dto.FormOptions{Statuses: statusNames(models.EmploymentStatuses)},
	}
}

func (h *TeacherHandler) newForm(c *fiber.Ctx) error {
	view := h.formView(dto.DefaultTeacherForm())
	return render(c, fiber.StatusOK, "teachers/form", view.Title, view)
}

func (h *TeacherHandler) create(c *fiber.Ctx) error {
	values := dto.DefaultTeacherForm()
	if err := c.BodyParser(&values); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	values.Normalize()

	var files []backend.File
	for _, upload := range []struct {
		field string
		kind  service.UploadKind
	}{{"photo", service.UploadImage}, {"resume", service.UploadPDF}} {
		header, err := formFile(c, upload.field)
		if err == nil {
			var file backend.File
			file, err = h.uploads.Prepare(c.UserContext(), upload.field, upload.kind, header)
			if len(file.Content) > 0 {
				files = append(files, file)
			}
		}
		if err != nil {
			view := h.formView(values)
			formFailure(&view, err, "Failed to add teacher")
			return render(c, errorStatus(err), "teachers/form", view.Title, view)
		}
	}

	form := h.screens.TeacherForm(values, files, nil)
	if err := form.Submit(c.UserContext()); err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("failed to add teacher")
		view := h.formView(form.Values())
		view.Error = form.Error()
		view.FieldErrors = form.FieldErrors()
		return render(c, errorStatus(err), "teachers/form", view.Title, view)
	}

	return done(c, "/teachers", "Teacher added successfully.")
}

func (h *TeacherHandler) detail(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	teacher, err := h.screens.Teachers.Get(c.UserContext(), id)
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Str("teacher_id", id.String()).Msg("failed to fetch teacher")
		view := dto.DetailView[models.Teacher]{Title: "Teacher", Error: backend.ErrorMessage(err, "Failed to fetch teacher")}
		return render(c, errorStatus(err), "teachers/detail", view.Title, view)
	}

	view := dto.DetailView[models.Teacher]{Title: teacher.FullName(), Item: teacher}
	return render(c, fiber.StatusOK, "teachers/detail", view.Title, view)
}

func (h *TeacherHandler) confirmDelete(c *fiber.Ctx) error {
	if _, err := idParam(c); err != nil {
		return err
	}
	return confirmation(c, "Delete Teacher", "Are you sure you want to delete this teacher?", "/teachers", nil)
}

func (h *TeacherHandler) delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	if !confirmed(c) {
		return done(c, "/teachers", "")
	}

	// the loaded page is kept so the deleted row can be dropped locally
	ctrl, loadErr := h.load(c)
	if loadErr != nil {
		requestLogger(h.logger, c).Warn().Err(loadErr).Msg("failed to load teachers before delete")
	}

	deleted, err := ctrl.Delete(c.UserContext(), id, service.Answer(true))
	if err != nil {
		return failure(err, "Failed to delete teacher")
	}
	if !deleted {
		return done(c, "/teachers", "")
	}
	return afterListMutation(c, ctrl, "teachers/index", "Teachers", "/teachers", "Teacher deleted.")
}
