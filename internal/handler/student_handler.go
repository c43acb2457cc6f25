package handler

import (
	"fmt"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/school-console/internal/backend"
	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/models"
	"github.com/noah-isme/school-console/internal/service"
)

// StudentHandler serves the student screens.
type StudentHandler struct {
	screens *service.Screens
	uploads service.UploadService
	exports service.ExportService
	logger  zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(screens *service.Screens, uploads service.UploadService, exports service.ExportService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		screens: screens,
		uploads: uploads,
		exports: exports,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches the student routes to the router group.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/new", h.newForm)
	router.Get("/export.xlsx", h.export)
	router.Get("/:id", h.detail)
	router.Get("/:id/status", h.confirmStatus)
	router.Post("/:id/status", h.changeStatus)
	router.Get("/:id/delete", h.confirmDelete)
	router.Post("/:id/delete", h.delete)
}

func (h *StudentHandler) load(c *fiber.Ctx) (*service.ListController[models.Student], error) {
	ctrl := h.screens.StudentList(models.ID(c.Query("class_id")))
	err := ctrl.Load(c.UserContext(), pageParam(c))
	return ctrl, err
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	ctrl, err := h.load(c)
	view := listView(c, ctrl, "Students")
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("failed to list students")
		return render(c, errorStatus(err), "students/index", view.Title, view)
	}
	return render(c, fiber.StatusOK, "students/index", view.Title, view)
}

func (h *StudentHandler) export(c *fiber.Ctx) error {
	ctrl, err := h.load(c)
	if err != nil {
		return failure(err, "Failed to fetch students")
	}
	view := listView(c, ctrl, "Students")

	table := service.Table{
		Sheet:   "Students",
		Columns: []string{"ID", "Name", "Email", "Class", "Roll Number", "Status", "Admission Date"},
	}
	for _, st := range view.Items {
		table.Rows = append(table.Rows, []string{
			st.ID.String(), st.FullName(), st.Email, st.ClassLabel(), models.OrNA(st.RollNumber),
			string(st.Status), models.FormatDate(st.AdmissionDate),
		})
	}
	return sendWorkbook(c, h.exports, table, "students.xlsx")
}

func (h *StudentHandler) formView(c *fiber.Ctx, values dto.StudentForm) dto.FormView[dto.StudentForm] {
	view := dto.FormView[dto.StudentForm]{
		Title:  "Add Student",
		Action: "/students",
		Mode:   string(service.FormModeCreate),
		Values: values,
		Options: dto.FormOptions{
			Statuses: statusNames(models.StudentStatuses),
		},
	}
	classes, err := h.screens.Classes.List(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("failed to load classes for student form")
	} else {
		view.Options.Classes = classes.Items
	}
	return view
}

func (h *StudentHandler) newForm(c *fiber.Ctx) error {
	view := h.formView(c, dto.DefaultStudentForm())
	return render(c, fiber.StatusOK, "students/form", view.Title, view)
}

func (h *StudentHandler) create(c *fiber.Ctx) error {
	values := dto.DefaultStudentForm()
	if err := c.BodyParser(&values); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	files, err := h.collectFiles(c)
	if err != nil {
		view := h.formView(c, values)
		formFailure(&view, err, "Failed to add student")
		return render(c, errorStatus(err), "students/form", view.Title, view)
	}

	form := h.screens.StudentForm(values, files, nil)
	if err := form.Submit(c.UserContext()); err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("failed to add student")
		view := h.formView(c, form.Values())
		view.Error = form.Error()
		view.FieldErrors = form.FieldErrors()
		return render(c, errorStatus(err), "students/form", view.Title, view)
	}

	return done(c, "/students", "Student added successfully.")
}

func (h *StudentHandler) collectFiles(c *fiber.Ctx) ([]backend.File, error) {
	uploads := []struct {
		field string
		kind  service.UploadKind
	}{
		{field: "image", kind: service.UploadImage},
		{field: "pdf", kind: service.UploadPDF},
	}

	var files []backend.File
	for _, upload := range uploads {
		header, err := formFile(c, upload.field)
		if err != nil {
			return nil, err
		}
		file, err := h.uploads.Prepare(c.UserContext(), upload.field, upload.kind, header)
		if err != nil {
			return nil, err
		}
		if len(file.Content) > 0 {
			files = append(files, file)
		}
	}
	return files, nil
}

func (h *StudentHandler) detail(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	student, err := h.screens.Students.Get(c.UserContext(), id)
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Str("student_id", id.String()).Msg("failed to fetch student")
		view := dto.DetailView[models.Student]{Title: "Student", Error: backend.ErrorMessage(err, "Failed to fetch student")}
		return render(c, errorStatus(err), "students/detail", view.Title, view)
	}

	view := dto.DetailView[models.Student]{Title: student.FullName(), Item: student}
	return render(c, fiber.StatusOK, "students/detail", view.Title, view)
}

func (h *StudentHandler) confirmStatus(c *fiber.Ctx) error {
	if _, err := idParam(c); err != nil {
		return err
	}
	status, ok := models.ParseStudentStatus(c.Query("status"))
	if !ok {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "status must be a valid student status")
	}
	return confirmation(c, "Change Status",
		fmt.Sprintf("Change this student's status to %s?", status),
		"/students", map[string]string{"status": string(status), "page": c.Query("page", "1")})
}

func (h *StudentHandler) changeStatus(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var payload dto.StudentStatusForm
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	if !confirmed(c) {
		return done(c, "/students", "")
	}

	ctrl, loadErr := h.load(c)
	if loadErr != nil {
		requestLogger(h.logger, c).Warn().Err(loadErr).Msg("failed to load students before status change")
	}

	changed, err := ctrl.ChangeStatus(c.UserContext(), id, payload.Status, service.Answer(true))
	if err != nil {
		return failure(err, "Failed to update status")
	}
	if !changed {
		return done(c, "/students", "")
	}
	return afterListMutation(c, ctrl, "students/index", "Students", fmt.Sprintf("/students?page=%d", ctrl.CurrentPage()), "Student status updated.")
}

func (h *StudentHandler) confirmDelete(c *fiber.Ctx) error {
	if _, err := idParam(c); err != nil {
		return err
	}
	return confirmation(c, "Delete Student", "Are you sure you want to delete this student?",
		"/students", map[string]string{"page": c.Query("page", "1")})
}

func (h *StudentHandler) delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	ctrl := h.screens.StudentList(models.ID(c.Query("class_id")))
	ctrl.SetPage(pageParam(c))
	deleted, err := ctrl.Delete(c.UserContext(), id, service.Answer(confirmed(c)))
	if err != nil {
		return failure(err, "Failed to delete student")
	}
	if !deleted {
		return done(c, "/students", "")
	}
	return afterListMutation(c, ctrl, "students/index", "Students", fmt.Sprintf("/students?page=%d", ctrl.CurrentPage()), "Student deleted.")
}

func formFile(c *fiber.Ctx, field string) (*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// not a multipart request, nothing was uploaded
		return nil, nil
	}
	headers := form.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	return headers[0], nil
}
