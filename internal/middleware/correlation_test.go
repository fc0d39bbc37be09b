package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classwork-tracker-api/internal/middleware"
)

func TestCorrelationIDGeneratesWhenMissing(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.CorrelationID())
	app.Get("/", func(c *fiber.Ctx) error {
		require.NotEmpty(t, middleware.GetCorrelationID(c))
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.NotEmpty(t, resp.Header.Get("X-Correlation-ID"))
}

func TestCorrelationIDEchoesIncoming(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.CorrelationID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Correlation-ID", "abc-123")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "abc-123", resp.Header.Get("X-Correlation-ID"))
}
