package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/school-console/internal/config"
	"github.com/noah-isme/school-console/internal/handler"
	"github.com/noah-isme/school-console/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	DashboardHandler  *handler.DashboardHandler
	StudentHandler    *handler.StudentHandler
	TeacherHandler    *handler.TeacherHandler
	ClassHandler      *handler.ClassHandler
	FeeTypeHandler    *handler.FeeTypeHandler
	VoucherHandler    *handler.VoucherHandler
	AttendanceHandler *handler.AttendanceHandler
	ActivityHandler   *handler.ActivityHandler
	// MutationLimiter guards POST routes of the console screens.
	MutationLimiter fiber.Handler
}

// Register wires the HTTP routes into the fiber application. The screen
// prefixes mirror service.Navigation.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	limiter := deps.MutationLimiter
	if limiter == nil {
		limiter = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(app)
	}
	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(app.Group("/students", limiter))
	}
	if deps.TeacherHandler != nil {
		deps.TeacherHandler.Register(app.Group("/teachers", limiter))
	}
	if deps.ClassHandler != nil {
		deps.ClassHandler.Register(app.Group("/classes", limiter))
	}

	fees := app.Group("/fees", limiter)
	fees.Get("", func(c *fiber.Ctx) error {
		return c.Redirect("/fees/types", fiber.StatusFound)
	})
	if deps.FeeTypeHandler != nil {
		deps.FeeTypeHandler.Register(fees.Group("/types"))
	}
	if deps.VoucherHandler != nil {
		deps.VoucherHandler.Register(fees.Group("/vouchers"))
	}

	if deps.AttendanceHandler != nil {
		deps.AttendanceHandler.Register(app.Group("/attendance", limiter))
	}
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(app.Group("/activity"))
	}
}
