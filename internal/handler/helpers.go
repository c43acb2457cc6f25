package handler

import (
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/school-console/internal/backend"
	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/middleware"
	"github.com/noah-isme/school-console/internal/models"
	"github.com/noah-isme/school-console/internal/service"
	"github.com/noah-isme/school-console/internal/utils"
)

const layout = "layouts/main"

// render answers with JSON when the client asked for it and with the named
// template inside the console layout otherwise.
func render(c *fiber.Ctx, status int, template, title string, view interface{}) error {
	if status == 0 {
		status = fiber.StatusOK
	}
	if utils.WantsJSON(c) {
		if status >= fiber.StatusBadRequest {
			return utils.Fail(c, status, errorText(view), view)
		}
		return utils.OK(c, view, "", nil)
	}

	return c.Status(status).Render(template, fiber.Map{
		"Title": title,
		"Shell": middleware.GetShell(c),
		"Nav":   service.Navigation(),
		"View":  view,
	}, layout)
}

// errorText pulls the Error field out of a view model for the JSON message.
func errorText(view interface{}) string {
	if carrier, ok := view.(interface{ ErrorText() string }); ok {
		return carrier.ErrorText()
	}
	return "request failed"
}

// done finishes a mutation: JSON clients get a success envelope, browsers are
// redirected to target with a flash message.
func done(c *fiber.Ctx, target, message string) error {
	if utils.WantsJSON(c) {
		return utils.SendSuccess(c, message, nil)
	}
	return c.Redirect(middleware.GetShell(c).Link(withFlash(target, message)), fiber.StatusSeeOther)
}

func withFlash(target, message string) string {
	if message == "" {
		return target
	}
	separator := "?"
	if strings.Contains(target, "?") {
		separator = "&"
	}
	return target + separator + "flash=" + url.QueryEscape(message)
}

// confirmed reads the answer of a two-step confirmation from a form field,
// the query string or a JSON body.
func confirmed(c *fiber.Ctx) bool {
	answer := c.FormValue("confirm")
	if answer == "" {
		answer = c.Query("confirm")
	}
	if answer == "" && strings.Contains(string(c.Request().Header.ContentType()), fiber.MIMEApplicationJSON) {
		var body struct {
			Confirm string `json:"confirm"`
		}
		if err := json.Unmarshal(c.Body(), &body); err == nil {
			answer = body.Confirm
		}
	}
	return strings.EqualFold(strings.TrimSpace(answer), "yes")
}

// afterListMutation answers a delete or status change. JSON clients receive
// the updated list, browsers are redirected back to it.
func afterListMutation[T any](c *fiber.Ctx, ctrl *service.ListController[T], template, title, target, message string) error {
	if utils.WantsJSON(c) {
		view := ctrl.View(title)
		view.Flash = message
		return render(c, fiber.StatusOK, template, title, view)
	}
	return done(c, target, message)
}

func sendWorkbook(c *fiber.Ctx, exports service.ExportService, table service.Table, filename string) error {
	data, err := exports.XLSX(table)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to export spreadsheet")
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, service.XLSXContentType)
	return c.Send(data)
}

func confirmation(c *fiber.Ctx, title, message, cancelURL string, fields map[string]string) error {
	view := dto.ConfirmView{
		Title:     title,
		Message:   message,
		Action:    c.Path(),
		CancelURL: cancelURL,
		Fields:    fields,
	}
	return render(c, fiber.StatusOK, "confirm", title, view)
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

// pageParam reads a one-based page from the query string or form body.
func pageParam(c *fiber.Ctx) int {
	raw := strings.TrimSpace(c.Query("page"))
	if raw == "" {
		raw = strings.TrimSpace(c.FormValue("page"))
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func idParam(c *fiber.Ctx) (models.ID, error) {
	raw, err := url.PathUnescape(c.Params("id"))
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid identifier")
	}
	id := models.ID(strings.TrimSpace(raw))
	if id.IsZero() {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid identifier")
	}
	return id, nil
}

// errorStatus maps controller and backend errors onto console status codes.
func errorStatus(err error) int {
	var validationErr *service.ValidationError
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.As(err, &validationErr):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, service.ErrSubmitInProgress):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrVoucherNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrUnsupportedAction), errors.Is(err, service.ErrUnsupportedMode):
		return fiber.StatusMethodNotAllowed
	default:
		return backend.StatusCode(err)
	}
}

// formFailure copies a failed validation or upload into a form view.
func formFailure[P any](view *dto.FormView[P], err error, fallback string) {
	view.Error = backend.ErrorMessage(err, fallback)
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		view.FieldErrors = validationErr.FieldMap()
	}
}

// failure turns err into a fiber error carrying the user facing message.
func failure(err error, fallback string) error {
	return fiber.NewError(errorStatus(err), backend.ErrorMessage(err, fallback))
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// listView applies the common query parameters of a list screen and renders it.
func listView[T any](c *fiber.Ctx, ctrl *service.ListController[T], title string) dto.ListView[T] {
	ctrl.Search(c.Query("search"))
	ctrl.SetSort(service.ParseSortOrder(c.Query("sort")))
	view := ctrl.View(title)
	view.Flash = c.Query("flash")
	return view
}

func statusNames[S ~string](statuses []S) []string {
	names := make([]string, 0, len(statuses))
	for _, status := range statuses {
		names = append(names, string(status))
	}
	return names
}

func joinLines(items []string) string {
	return strings.Join(items, "\n")
}
