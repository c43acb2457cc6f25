package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/models"
	"github.com/noah-isme/school-console/internal/service"
)

// AttendanceHandler serves the attendance screens.
type AttendanceHandler struct {
	screens *service.Screens
	exports service.ExportService
	logger  zerolog.Logger
	now     func() time.Time
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(screens *service.Screens, exports service.ExportService, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		screens: screens,
		exports: exports,
		logger:  logger.With().Str("component", "attendance_handler").Logger(),
		now:     time.Now,
	}
}

// Register attaches the attendance routes to the router group.
func (h *AttendanceHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/export.xlsx", h.export)
	router.Get("/mark", h.markForm)
	router.Post("/mark", h.mark)
	router.Get("/:id/edit", h.editForm)
	router.Post("/:id", h.update)
	router.Get("/:id/status", h.confirmStatus)
	router.Post("/:id/status", h.changeStatus)
	router.Get("/:id/delete", h.confirmDelete)
	router.Post("/:id/delete", h.delete)
}

func (h *AttendanceHandler) load(c *fiber.Ctx) (*service.ListController[models.AttendanceRecord], error) {
	ctrl := h.screens.AttendanceList()
	return ctrl, ctrl.Load(c.UserContext(), pageParam(c))
}

func (h *AttendanceHandler) list(c *fiber.Ctx) error {
	ctrl, err := h.load(c)
	view := listView(c, ctrl, "Attendance Records")
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("failed to list attendance")
		return render(c, errorStatus(err), "attendance/index", view.Title, view)
	}
	return render(c, fiber.StatusOK, "attendance/index", view.Title, view)
}

func (h *AttendanceHandler) export(c *fiber.Ctx) error {
	ctrl, err := h.load(c)
	if err != nil {
		return failure(err, "Failed to fetch attendance records")
	}
	view := listView(c, ctrl, "Attendance Records")

	table := service.Table{Sheet: "Attendance", Columns: []string{"ID", "Student", "Class", "Date", "Status"}}
	for _, record := range view.Items {
		table.Rows = append(table.Rows, []string{
			record.ID.String(), models.OrNA(record.StudentName()), models.OrNA(record.ClassName),
			models.FormatDate(record.AttendanceDate), string(record.Status),
		})
	}
	return sendWorkbook(c, h.exports, table, "attendance.xlsx")
}

func (h *AttendanceHandler) markView(c *fiber.Ctx, values dto.AttendanceForm, students []models.Student) dto.FormView[dto.AttendanceForm] {
	view := dto.FormView[dto.AttendanceForm]{
		Title:  "Mark Attendance",
		Action: "/attendance/mark",
		Mode:   string(service.FormModeCreate),
		Values: values,
		Options: dto.FormOptions{
			Students: students,
			Statuses: []string{string(models.AttendancePresent), string(models.AttendanceAbsent)},
		},
	}
	classes, err := h.screens.Classes.List(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("failed to load classes for attendance")
	} else {
		view.Options.Classes = classes.Items
	}
	return view
}

func (h *AttendanceHandler) today() string {
	return h.now().Format("2006-01-02")
}

// markForm picks a class and lists its students, all marked present.
func (h *AttendanceHandler) markForm(c *fiber.Ctx) error {
	classID := models.ID(strings.TrimSpace(c.Query("class_id")))
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		date = h.today()
	}

	var students []models.Student
	if !classID.IsZero() {
		var err error
		students, err = h.screens.ClassStudents(c.UserContext(), classID)
		if err != nil {
			requestLogger(h.logger, c).Warn().Err(err).Str("class_id", classID.String()).Msg("failed to load class roster")
			view := h.markView(c, dto.AttendanceForm{ClassID: classID, AttendanceDate: date}, nil)
			formFailure(&view, err, "Failed to fetch students")
			return render(c, errorStatus(err), "attendance/mark", view.Title, view)
		}
	}

	view := h.markView(c, dto.NewAttendanceForm(classID, date, students), students)
	return render(c, fiber.StatusOK, "attendance/mark", view.Title, view)
}

// mark submits a whole class. Browsers post one status_<student id> field per
// student. Missing fields keep the default of present.
func (h *AttendanceHandler) mark(c *fiber.Ctx) error {
	var (
		values   dto.AttendanceForm
		students []models.Student
	)

	if strings.Contains(string(c.Request().Header.ContentType()), fiber.MIMEApplicationJSON) {
		if err := c.BodyParser(&values); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
	} else {
		classID := models.ID(strings.TrimSpace(c.FormValue("class_id")))
		date := strings.TrimSpace(c.FormValue("attendance_date"))
		if !classID.IsZero() {
			var err error
			students, err = h.screens.ClassStudents(c.UserContext(), classID)
			if err != nil {
				return failure(err, "Failed to fetch students")
			}
		}
		values = dto.NewAttendanceForm(classID, date, students)
		for _, student := range students {
			if status := models.AttendanceStatus(c.FormValue("status_" + student.ID.String())); status == models.AttendanceAbsent {
				values.SetStatus(student.ID, status)
			}
		}
	}

	form := h.screens.AttendanceMarkForm(values, nil)
	if err := form.Submit(c.UserContext()); err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("failed to mark attendance")
		view := h.markView(c, form.Values(), students)
		view.Error = form.Error()
		view.FieldErrors = form.FieldErrors()
		return render(c, errorStatus(err), "attendance/mark", view.Title, view)
	}

	return done(c, "/attendance", "Attendance marked successfully.")
}

func attendanceEditView(id models.ID, values dto.AttendanceStatusForm) dto.FormView[dto.AttendanceStatusForm] {
	return dto.FormView[dto.AttendanceStatusForm]{
		Title:   "Edit Attendance",
		Action:  "/attendance/" + id.String(),
		Mode:    string(service.FormModeEdit),
		Values:  values,
		Options: dto.FormOptions{Statuses: []string{string(models.AttendancePresent), string(models.AttendanceAbsent)}},
	}
}

func (h *AttendanceHandler) editForm(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	status := c.Query("status", string(models.AttendancePresent))
	view := attendanceEditView(id, dto.AttendanceStatusForm{Status: status})
	return render(c, fiber.StatusOK, "attendance/edit", view.Title, view)
}

func (h *AttendanceHandler) update(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var values dto.AttendanceStatusForm
	if err := c.BodyParser(&values); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	form := h.screens.AttendanceStatusForm(id, values, nil)
	if err := form.Submit(c.UserContext()); err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Str("attendance_id", id.String()).Msg("failed to update attendance")
		view := attendanceEditView(id, form.Values())
		view.Error = form.Error()
		view.FieldErrors = form.FieldErrors()
		return render(c, errorStatus(err), "attendance/edit", view.Title, view)
	}

	return done(c, "/attendance", "Attendance updated.")
}

func (h *AttendanceHandler) confirmStatus(c *fiber.Ctx) error {
	if _, err := idParam(c); err != nil {
		return err
	}
	status := models.AttendanceStatus(c.Query("status"))
	if status != models.AttendancePresent && status != models.AttendanceAbsent {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "status must be one of [present absent]")
	}
	return confirmation(c, "Change Attendance", fmt.Sprintf("Mark this record as %s?", status),
		"/attendance", map[string]string{"status": string(status), "page": c.Query("page", "1")})
}

func (h *AttendanceHandler) changeStatus(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var payload dto.AttendanceStatusForm
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	if !confirmed(c) {
		return done(c, "/attendance", "")
	}

	ctrl, loadErr := h.load(c)
	if loadErr != nil {
		requestLogger(h.logger, c).Warn().Err(loadErr).Msg("failed to load attendance before status change")
	}

	changed, err := ctrl.ChangeStatus(c.UserContext(), id, payload.Status, service.Answer(true))
	if err != nil {
		return failure(err, "Failed to update attendance")
	}
	if !changed {
		return done(c, "/attendance", "")
	}
	return afterListMutation(c, ctrl, "attendance/index", "Attendance Records",
		fmt.Sprintf("/attendance?page=%d", ctrl.CurrentPage()), "Attendance updated.")
}

func (h *AttendanceHandler) confirmDelete(c *fiber.Ctx) error {
	if _, err := idParam(c); err != nil {
		return err
	}
	return confirmation(c, "Delete Attendance", "Are you sure you want to delete this attendance record?",
		"/attendance", map[string]string{"page": c.Query("page", "1")})
}

func (h *AttendanceHandler) delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	ctrl := h.screens.AttendanceList()
	ctrl.SetPage(pageParam(c))
	deleted, err := ctrl.Delete(c.UserContext(), id, service.Answer(confirmed(c)))
	if err != nil {
		return failure(err, "Failed to delete attendance record")
	}
	if !deleted {
		return done(c, "/attendance", "")
	}
	return afterListMutation(c, ctrl, "attendance/index", "Attendance Records",
		fmt.Sprintf("/attendance?page=%d", ctrl.CurrentPage()), "Attendance record deleted.")
}
