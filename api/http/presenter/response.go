package presenter

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/useradmin/pkg/users"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationResponse lists the offending fields of a rejected payload.
type ValidationResponse struct {
	Error  string             `json:"error"`
	Errors []users.FieldError `json:"errors"`
}

// SuccessResponse acknowledges actions that return no resource.
type SuccessResponse struct {
	Success bool `json:"success"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Error: message})
}

// Validation answers 400 with per-field messages.
func Validation(c *fiber.Ctx, fields []users.FieldError) error {
	return JSON(c, http.StatusBadRequest, ValidationResponse{Error: "Validation failed", Errors: fields})
}

// Rejection answers 400 with message under "error" plus the given details.
func Rejection(c *fiber.Ctx, message string, details fiber.Map) error {
	body := fiber.Map{"error": message}
	for k, v := range details {
		body[k] = v
	}
	return JSON(c, http.StatusBadRequest, body)
}

func Success(c *fiber.Ctx) error {
	return JSON(c, http.StatusOK, SuccessResponse{Success: true})
}
