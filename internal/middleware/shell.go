package middleware

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/school-console/internal/service"
)

const shellLocalKey = "shell"

// Shell derives the navigation shell state from the request path and query
// string and stores it for handlers and templates.
func Shell() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query, err := url.ParseQuery(string(c.Request().URI().QueryString()))
		if err != nil {
			query = url.Values{}
		}
		c.Locals(shellLocalKey, service.ParseShell(c.Path(), query))
		return c.Next()
	}
}

// GetShell returns the shell state bound to the active request.
func GetShell(c *fiber.Ctx) service.Shell {
	if c != nil {
		if shell, ok := c.Locals(shellLocalKey).(service.Shell); ok {
			return shell
		}
		return service.DefaultShell(c.Path())
	}
	return service.DefaultShell("/")
}
