package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/classwork-tracker-api/internal/utils"
)

// AdminSecretHeader carries the shared operator secret.
const AdminSecretHeader = "X-Admin-Secret"

// AdminGate guards the raw-table escape hatch with a single shared secret.
// There are no admin accounts, no lockout, and no rate limiting; the compare
// is constant time so the secret cannot be probed byte by byte.
func AdminGate(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return utils.SendError(c, fiber.StatusForbidden, "admin access is not configured")
		}

		provided := c.Get(AdminSecretHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid admin secret")
		}

		return c.Next()
	}
}
