package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/school-console/internal/backend"
	"github.com/noah-isme/school-console/internal/utils"
)

// ErrorView is rendered for failures that have no screen of their own.
type ErrorView struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// ErrorText implements the error carrier used by the JSON renderer.
func (v ErrorView) ErrorText() string { return v.Message }

// ErrorHandler renders errors returned by handlers as an error page or a JSON
// envelope, depending on what the client accepts.
func ErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	log := logger.With().Str("component", "error_handler").Logger()

	return func(c *fiber.Ctx, err error) error {
		view := ErrorView{
			Status:  errorStatus(err),
			Message: backend.ErrorMessage(err, "Something went wrong. Please try again."),
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			view.Status = fiberErr.Code
			view.Message = fiberErr.Message
		}

		if view.Status >= fiber.StatusInternalServerError {
			requestLogger(log, c).Error().Err(err).Int("status", view.Status).Msg("request failed")
		}

		if utils.WantsJSON(c) {
			return utils.Fail(c, view.Status, view.Message, nil)
		}
		if renderErr := render(c, view.Status, "error", "Error", view); renderErr != nil {
			log.Error().Err(renderErr).Msg("failed to render error page")
			return c.Status(view.Status).SendString(view.Message)
		}
		return nil
	}
}
