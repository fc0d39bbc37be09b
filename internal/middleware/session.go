package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/classwork-tracker-api/internal/session"
	"github.com/noah-isme/classwork-tracker-api/internal/utils"
)

const sessionLocalsKey = "session"

// LoadSession decodes the session cookie, if any, into request locals.
// Requests without a decodable session proceed anonymously; the role guards
// below decide whether that is acceptable.
func LoadSession(manager *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sess, ok := manager.Read(c); ok {
			c.Locals(sessionLocalsKey, sess)
		}
		return c.Next()
	}
}

// RequireTeacher rejects requests without an established teacher session.
func RequireTeacher() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := SessionFromContext(c)
		if !ok || !sess.IsTeacher() {
			return utils.SendError(c, fiber.StatusUnauthorized, "teacher session required")
		}
		return c.Next()
	}
}

// RequireStudent rejects requests without an established student session.
func RequireStudent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := SessionFromContext(c)
		if !ok || !sess.IsStudent() {
			return utils.SendError(c, fiber.StatusUnauthorized, "student session required")
		}
		return c.Next()
	}
}

// SessionFromContext returns the decoded session bound to the request.
func SessionFromContext(c *fiber.Ctx) (session.Session, bool) {
	value := c.Locals(sessionLocalsKey)
	if value == nil {
		return session.Session{}, false
	}

	sess, ok := value.(session.Session)
	return sess, ok
}
