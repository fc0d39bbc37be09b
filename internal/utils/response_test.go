package utils_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classwork-tracker-api/internal/utils"
)

func performRequest(t *testing.T, app *fiber.App, method, target string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func decodeResponse(t *testing.T, resp *http.Response) utils.APIResponse {
	t.Helper()

	var payload utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))

	return payload
}

func TestSendSuccessDefaultsMessage(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "", map[string]string{"hello": "world"})
	})

	resp := performRequest(t, app, http.MethodGet, "/")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	payload := decodeResponse(t, resp)
	require.True(t, payload.Success)
	require.Equal(t, "success", payload.Message)
	require.NotNil(t, payload.Data)
}

func TestSendSuccessWithStatus(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "created", nil)
	})

	resp := performRequest(t, app, http.MethodGet, "/")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	payload := decodeResponse(t, resp)
	require.True(t, payload.Success)
	require.Equal(t, "created", payload.Message)
}

func TestSendErrorOmitsData(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return utils.SendError(c, fiber.StatusNotFound, "missing")
	})

	resp := performRequest(t, app, http.MethodGet, "/")
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	payload := decodeResponse(t, resp)
	require.False(t, payload.Success)
	require.Equal(t, "missing", payload.Message)
	require.Nil(t, payload.Data)
}
