package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/useradmin/api/http/presenter"
	"github.com/artem13815/useradmin/pkg/auth"
	"github.com/artem13815/useradmin/pkg/security/jwt"
)

type AuthHandler struct {
	useCase      auth.AuthUseCase
	secureCookie bool
	log          *slog.Logger
}

func NewAuthHandler(useCase auth.AuthUseCase, secureCookie bool, log *slog.Logger) *AuthHandler {
	return &AuthHandler{useCase: useCase, secureCookie: secureCookie, log: log}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks credentials and sets the session cookie.
// @Summary Login
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body loginRequest true "login payload"
// @Success 200 {object} presenter.SuccessResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "Invalid JSON payload")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return presenter.Error(c, http.StatusBadRequest, "Email and password are required")
	}

	session, err := h.useCase.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return presenter.Error(c, http.StatusUnauthorized, "Invalid credentials")
		}
		h.log.Error("login failed", "err", err)
		return presenter.Error(c, http.StatusInternalServerError, "Internal server error")
	}

	jwt.SetSessionCookie(c, session.Token, h.secureCookie)
	h.log.Info("user logged in", "userId", session.User.ID.String())
	return presenter.Success(c)
}

// Logout clears the session cookie.
// @Summary Logout
// @Tags    auth
// @Produce json
// @Success 200 {object} presenter.SuccessResponse
// @Router  /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	jwt.ClearSessionCookie(c, h.secureCookie)
	return presenter.Success(c)
}
