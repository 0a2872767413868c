package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/LocalBiz/internal/pkg/usercontext"
)

func withUser(uc usercontext.UserContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		usercontext.Set(c, uc)
		return c.Next()
	}
}

func ok(c *fiber.Ctx) error { return c.SendString("ok") }

func TestRequireAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/anon", withUser(usercontext.Anonymous), RequireAuth, ok)
	app.Get("/user", withUser(usercontext.UserContext{UserID: 1, IsLoggedIn: true}), RequireAuth, ok)

	resp, err := app.Test(httptest.NewRequest("GET", "/anon", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, err = app.Test(httptest.NewRequest("GET", "/user", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAdmin(t *testing.T) {
	app := fiber.New()
	app.Get("/anon", withUser(usercontext.Anonymous), RequireAdmin, ok)
	app.Get("/user", withUser(usercontext.UserContext{UserID: 1, IsLoggedIn: true}), RequireAdmin, ok)
	app.Get("/admin", withUser(usercontext.UserContext{UserID: 2, IsLoggedIn: true, IsAdmin: true}), RequireAdmin, ok)

	resp, err := app.Test(httptest.NewRequest("GET", "/anon", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, err = app.Test(httptest.NewRequest("GET", "/user", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/businesses/", resp.Header.Get("Location"))
	assert.True(t, strings.Contains(strings.Join(resp.Header.Values("Set-Cookie"), ";"), "flash"))

	resp, err = app.Test(httptest.NewRequest("GET", "/admin", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAPISessionAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/api", withUser(usercontext.Anonymous), RequireAPISessionAuth, ok)

	resp, err := app.Test(httptest.NewRequest("GET", "/api", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
