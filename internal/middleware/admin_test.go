package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classwork-tracker-api/internal/middleware"
)

func newGatedApp(secret string) *fiber.App {
	app := fiber.New()
	app.Get("/admin", middleware.AdminGate(secret), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAdminGateAcceptsCorrectSecret(t *testing.T) {
	app := newGatedApp("s3cret")

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(middleware.AdminSecretHeader, "s3cret")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminGateRejectsWrongSecret(t *testing.T) {
	app := newGatedApp("s3cret")

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(middleware.AdminSecretHeader, "guess")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminGateRejectsMissingHeader(t *testing.T) {
	app := newGatedApp("s3cret")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminGateDisabledWithoutSecret(t *testing.T) {
	app := newGatedApp("")

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(middleware.AdminSecretHeader, "")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
