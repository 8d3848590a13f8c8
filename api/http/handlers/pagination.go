package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/useradmin/pkg/users"
)

// parsePage reads ?page=; anything missing or non-positive means page 1.
// Pages beyond users.MaxPage are clamped to it.
func parsePage(c *fiber.Ctx) int {
	if v := strings.TrimSpace(c.Query("page")); v != "" {
		n, err := strconv.Atoi(v)
		switch {
		case errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(v, "-"):
			return users.MaxPage
		case err == nil && n > users.MaxPage:
			return users.MaxPage
		case err == nil && n > 0:
			return n
		}
	}
	return 1
}

// parseAgeFilter reads ?age=. ok is false when the value is present but not
// a whole number.
func parseAgeFilter(c *fiber.Ctx) (age *int, ok bool) {
	v := strings.TrimSpace(c.Query("age"))
	if v == "" {
		return nil, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, false
	}
	return &n, true
}
