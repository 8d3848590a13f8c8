package jwt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/useradmin/pkg/auth"
)

func newGateApp(m *Manager) *fiber.App {
	app := fiber.New()
	app.Use(NewSessionGate(m))
	ok := func(c *fiber.Ctx) error { return c.SendString("page " + c.Path()) }
	app.Get("/", ok)
	app.Get("/dashboard", ok)
	app.Get("/dashboard/*", ok)
	app.Get("/dashboards", ok)
	app.Get("/about", ok)
	return app
}

func validToken(t *testing.T, m *Manager) string {
	t.Helper()
	tok, err := m.Issue(context.Background(), auth.Claims{UserID: "u1", Email: "a@x.com"})
	require.NoError(t, err)
	return tok
}

func get(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestSessionGate(t *testing.T) {
	m := newTestManager("k", time.Now)
	app := newGateApp(m)
	tok := validToken(t, m)

	cases := []struct {
		name     string
		path     string
		token    string
		status   int
		location string
	}{
		{"public without session", "/", "", http.StatusOK, ""},
		{"public with session", "/", tok, http.StatusFound, "/dashboard"},
		{"public with bad token", "/", "garbage", http.StatusOK, ""},
		{"dashboard without session", "/dashboard", "", http.StatusFound, "/"},
		{"dashboard nested without session", "/dashboard/add", "", http.StatusFound, "/"},
		{"dashboard with bad token", "/dashboard", "garbage", http.StatusFound, "/"},
		{"dashboard with session", "/dashboard", tok, http.StatusOK, ""},
		{"dashboard nested with session", "/dashboard/abc", tok, http.StatusOK, ""},
		{"lookalike prefix passes", "/dashboards", "", http.StatusOK, ""},
		{"other path passes", "/about", "", http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := get(t, app, tc.path, tc.token)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.location, resp.Header.Get("Location"))
		})
	}
}

func TestSessionGate_ExpiredTokenRedirects(t *testing.T) {
	issued := time.Now().Add(-25 * time.Hour)
	old := newTestManager("k", func() time.Time { return issued })
	tok := validToken(t, old)

	app := newGateApp(newTestManager("k", time.Now))
	resp := get(t, app, "/dashboard", tok)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestAuthMiddleware(t *testing.T) {
	m := newTestManager("k", time.Now)
	app := fiber.New()
	app.Use(NewAuthMiddleware(m))
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userId": c.Locals("userId"), "email": c.Locals("email")})
	})
	tok := validToken(t, m)

	resp := get(t, app, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = get(t, app, "/me", tok)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer nope")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSetSessionCookie(t *testing.T) {
	app := fiber.New()
	app.Get("/login", func(c *fiber.Ctx) error {
		SetSessionCookie(c, "abc", true)
		return nil
	})
	app.Get("/logout", func(c *fiber.Ctx) error {
		ClearSessionCookie(c, false)
		return nil
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/login", nil))
	require.NoError(t, err)
	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "abc", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, 24*60*60, c.MaxAge)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/logout", nil))
	require.NoError(t, err)
	cookies = resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].Expires.Before(time.Now()))
}
