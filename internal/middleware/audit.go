package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/school-console/internal/service"
)

// ActorHeader names the operator header forwarded by an upstream proxy.
const ActorHeader = "X-Console-Actor"

// AuditContext attaches the actor and correlation identifier to the request
// context so mutations can be attributed in the activity trail.
func AuditContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		audit := service.Audit{
			Actor:         strings.TrimSpace(c.Get(ActorHeader)),
			CorrelationID: GetCorrelationID(c),
		}
		c.SetUserContext(service.WithAudit(c.UserContext(), audit))
		return c.Next()
	}
}
