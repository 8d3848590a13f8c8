package handlers

import (
	"embed"

	"github.com/gofiber/fiber/v2"
)

//go:embed pages/*.html
var pageFS embed.FS

// PagesHandler serves the login page and the dashboard shell. The dashboard
// renders client side from the /api/users endpoints.
type PagesHandler struct {
	index     []byte
	dashboard []byte
}

func NewPagesHandler() (*PagesHandler, error) {
	index, err := pageFS.ReadFile("pages/index.html")
	if err != nil {
		return nil, err
	}
	dashboard, err := pageFS.ReadFile("pages/dashboard.html")
	if err != nil {
		return nil, err
	}
	return &PagesHandler{index: index, dashboard: dashboard}, nil
}

func (h *PagesHandler) Index(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.Send(h.index)
}

func (h *PagesHandler) Dashboard(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.Send(h.dashboard)
}
