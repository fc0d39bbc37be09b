package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classwork-tracker-api/internal/session"
)

func newSessionApp(manager *session.Manager) *fiber.App {
	app := fiber.New()

	app.Post("/establish", func(c *fiber.Ctx) error {
		err := manager.Establish(c, session.Session{
			Role:        session.RoleTeacher,
			ActorID:     7,
			DisplayName: "ms_lee",
		})
		if err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Get("/read", func(c *fiber.Ctx) error {
		sess, ok := manager.Read(c)
		if !ok {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.JSON(sess)
	})

	app.Post("/clear", func(c *fiber.Ctx) error {
		manager.Clear(c)
		return c.SendStatus(fiber.StatusNoContent)
	})

	return app
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()

	for _, cookie := range resp.Cookies() {
		if cookie.Name == session.CookieName {
			return cookie
		}
	}

	t.Fatalf("response carries no %s cookie", session.CookieName)
	return nil
}

func TestManagerRoundTrip(t *testing.T) {
	manager := session.NewManager("hash-secret", "block-secret", false)
	app := newSessionApp(manager)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/establish", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	cookie := sessionCookie(t, resp)
	require.True(t, cookie.HttpOnly)
	require.NotContains(t, cookie.Value, "teacher", "cookie payload must be opaque")
	require.NotContains(t, cookie.Value, "ms_lee", "cookie payload must be opaque")

	read := httptest.NewRequest(http.MethodGet, "/read", nil)
	read.AddCookie(cookie)

	resp, err = app.Test(read)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestManagerRejectsTamperedCookie(t *testing.T) {
	manager := session.NewManager("hash-secret", "block-secret", false)
	app := newSessionApp(manager)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/establish", nil))
	require.NoError(t, err)
	cookie := sessionCookie(t, resp)

	tampered := *cookie
	tampered.Value = "x" + tampered.Value[1:]

	read := httptest.NewRequest(http.MethodGet, "/read", nil)
	read.AddCookie(&tampered)

	resp, err = app.Test(read)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestManagerRejectsForeignCookie(t *testing.T) {
	issuer := session.NewManager("hash-secret", "block-secret", false)
	verifier := session.NewManager("other-hash", "other-block", false)

	resp, err := newSessionApp(issuer).Test(httptest.NewRequest(http.MethodPost, "/establish", nil))
	require.NoError(t, err)
	cookie := sessionCookie(t, resp)

	read := httptest.NewRequest(http.MethodGet, "/read", nil)
	read.AddCookie(cookie)

	resp, err = newSessionApp(verifier).Test(read)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestManagerClearExpiresCookie(t *testing.T) {
	manager := session.NewManager("hash-secret", "block-secret", false)
	app := newSessionApp(manager)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/clear", nil))
	require.NoError(t, err)

	cookie := sessionCookie(t, resp)
	require.Empty(t, cookie.Value)
}

func TestManagerReadWithoutCookie(t *testing.T) {
	manager := session.NewManager("hash-secret", "block-secret", false)
	app := newSessionApp(manager)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/read", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
