package jwt

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/useradmin/pkg/auth"
)

const (
	// CookieName is the session cookie carrying the signed token.
	CookieName = "token"

	PublicPath    = "/"
	DashboardPath = "/dashboard"
)

// tokenFromRequest reads the session cookie, falling back to an
// Authorization header ("Bearer <token>" or "<token>").
func tokenFromRequest(c *fiber.Ctx) string {
	if v := strings.TrimSpace(c.Cookies(CookieName)); v != "" {
		return v
	}
	authHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if authHeader == "" {
		return ""
	}
	if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return authHeader
}

func isDashboard(path string) bool {
	return path == DashboardPath || strings.HasPrefix(path, DashboardPath+"/")
}

// NewSessionGate returns a middleware that routes page requests by session
// state: "/" with a session goes to the dashboard, the dashboard without one
// goes back to "/". Every other path passes through untouched.
func NewSessionGate(verifier auth.TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		switch {
		case path == PublicPath:
			if _, ok := verifier.Verify(tokenFromRequest(c)); ok {
				return c.Redirect(DashboardPath, http.StatusFound)
			}
		case isDashboard(path):
			claims, ok := verifier.Verify(tokenFromRequest(c))
			if !ok {
				return c.Redirect(PublicPath, http.StatusFound)
			}
			setIdentity(c, claims)
		}
		return c.Next()
	}
}

// NewAuthMiddleware guards API routes: requests without a valid session get
// 401. On success the identity is stored in c.Locals("userId") and
// c.Locals("email").
func NewAuthMiddleware(verifier auth.TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := verifier.Verify(tokenFromRequest(c))
		if !ok {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		setIdentity(c, claims)
		return c.Next()
	}
}

func setIdentity(c *fiber.Ctx, claims auth.Claims) {
	c.Locals("userId", claims.UserID)
	c.Locals("email", claims.Email)
}

// SetSessionCookie attaches token as an HTTP-only, same-site lax cookie that
// lives as long as the token. secure marks it HTTPS-only.
func SetSessionCookie(c *fiber.Ctx, token string, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.SessionTTL.Seconds()),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie on the client.
func ClearSessionCookie(c *fiber.Ctx, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
