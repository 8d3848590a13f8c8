package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/useradmin/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app. gate routes page
// requests by session state; authMW guards the users API.
func Register(
	app *fiber.App,
	auth *handlers.AuthHandler,
	users *handlers.UsersHandler,
	health *handlers.HealthHandler,
	pages *handlers.PagesHandler,
	gate fiber.Handler,
	authMW fiber.Handler,
) {
	app.Use(gate)
	app.Get("/", pages.Index)
	app.Get("/dashboard", pages.Dashboard)
	app.Get("/dashboard/*", pages.Dashboard)

	api := app.Group("/api")

	// Health and readiness endpoints for probes/monitoring
	api.Get("/health", health.Health)
	api.Get("/ready", health.Ready)

	a := api.Group("/auth")
	a.Post("/login", auth.Login)
	a.Post("/logout", auth.Logout)

	u := api.Group("/users", authMW)
	u.Get("/", users.List)
	u.Post("/", users.Create)
	u.Post("/bulk", users.Bulk)
	u.Get("/:id", users.Get)
}
