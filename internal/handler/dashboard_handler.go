package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/school-console/internal/backend"
	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/service"
)

const recentActivityLimit = 5

// DashboardHandler renders the console landing page.
type DashboardHandler struct {
	stats    service.DashboardService
	activity service.ActivityService
	logger   zerolog.Logger
}

// NewDashboardHandler constructs the handler. activity may be nil.
func NewDashboardHandler(stats service.DashboardService, activity service.ActivityService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		stats:    stats,
		activity: activity,
		logger:   logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches the dashboard route.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/", h.show)
}

func (h *DashboardHandler) show(c *fiber.Ctx) error {
	view := dto.DashboardView{Recent: []dto.ActivityResponse{}}

	stats, err := h.stats.Stats(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("failed to build dashboard")
		view.Error = backend.ErrorMessage(err, "Failed to load dashboard statistics")
	}
	view.Stats = stats

	if h.activity != nil {
		recent, err := h.activity.Recent(c.UserContext(), recentActivityLimit)
		if err != nil {
			requestLogger(h.logger, c).Warn().Err(err).Msg("failed to load recent activity")
		} else {
			view.Recent = recent
		}
	}

	// A failed statistics call still renders the page with its error banner.
	return render(c, fiber.StatusOK, "dashboard", "Dashboard", view)
}
