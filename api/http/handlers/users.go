package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/useradmin/api/http/presenter"
	"github.com/artem13815/useradmin/pkg/importer"
	"github.com/artem13815/useradmin/pkg/users"
)

type UsersHandler struct {
	users    users.UseCase
	importer importer.UseCase
	log      *slog.Logger
	// Limit uploaded file size read into memory (bytes)
	maxBytes int64
}

func NewUsersHandler(uc users.UseCase, imp importer.UseCase, maxBytes int64, log *slog.Logger) *UsersHandler {
	return &UsersHandler{users: uc, importer: imp, maxBytes: maxBytes, log: log}
}

// List returns one page of users, optionally filtered by exact age.
// @Summary List users
// @Tags    users
// @Produce json
// @Param   page query int false "page number, starting at 1"
// @Param   age  query int false "exact age filter"
// @Success 200 {object} users.Page
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /users [get]
func (h *UsersHandler) List(c *fiber.Ctx) error {
	age, ok := parseAgeFilter(c)
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "Invalid age filter")
	}
	page, err := h.users.List(c.Context(), users.Filter{Age: age}, parsePage(c))
	if err != nil {
		h.log.Error("list users", "err", err)
		return presenter.Error(c, http.StatusInternalServerError, "Failed to fetch users")
	}
	return presenter.JSON(c, http.StatusOK, page)
}

// Get returns the public fields of one user.
// @Summary Get user
// @Tags    users
// @Produce json
// @Param   id path string true "user id (UUID)"
// @Success 200 {object} users.PublicUser
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /users/{id} [get]
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusNotFound, "User not found")
	}
	u, err := h.users.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "User not found")
		}
		h.log.Error("get user", "id", id.String(), "err", err)
		return presenter.Error(c, http.StatusInternalServerError, "Failed to fetch user")
	}
	return presenter.JSON(c, http.StatusOK, u)
}

// Create stores one user.
// @Summary Create user
// @Tags    users
// @Accept  json
// @Produce json
// @Param   input body users.CreateInput true "user payload"
// @Success 201 {object} users.PublicUser
// @Failure 400 {object} presenter.ValidationResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /users [post]
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var in users.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "Invalid JSON payload")
	}
	u, err := h.users.Create(c.Context(), in)
	if err != nil {
		var verr *users.ValidationError
		switch {
		case errors.As(err, &verr):
			return presenter.Validation(c, verr.Fields)
		case errors.Is(err, users.ErrEmailExists):
			return presenter.Error(c, http.StatusBadRequest, "Email already exists")
		default:
			h.log.Error("create user", "err", err)
			return presenter.Error(c, http.StatusInternalServerError, "Failed to create user")
		}
	}
	h.log.Info("user created", "id", u.ID.String())
	return presenter.JSON(c, http.StatusCreated, u)
}

// Bulk imports users from the first sheet of an uploaded Excel workbook.
// @Summary     Bulk import users
// @Description Columns: name | surname | email | age | password. The whole file is imported or nothing is.
// @Tags        users
// @Accept      multipart/form-data
// @Produce     json
// @Param       file formData file true "Excel workbook (.xlsx)"
// @Success     200 {object} map[string]any
// @Failure     400 {object} map[string]any
// @Failure     401 {object} presenter.ErrorResponse
// @Failure     500 {object} presenter.ErrorResponse
// @Router      /users/bulk [post]
func (h *UsersHandler) Bulk(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return presenter.Error(c, http.StatusBadRequest, "No file provided")
	}
	file, err := fh.Open()
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "Failed to open uploaded file")
	}
	defer file.Close()
	data, err := readAtMost(file, h.maxBytes)
	if err != nil {
		if errors.Is(err, errFileTooLarge) {
			return presenter.Error(c, http.StatusBadRequest, fmt.Sprintf("File too large: limit is %d bytes", h.maxBytes))
		}
		h.log.Error("read uploaded file", "filename", fh.Filename, "err", err)
		return presenter.Error(c, http.StatusBadRequest, "Failed to read uploaded file")
	}

	res, err := h.importer.Import(c.Context(), importer.Upload{Filename: fh.Filename, Data: data})
	if err != nil {
		return h.importError(c, fh.Filename, err)
	}
	h.log.Info("bulk import committed", "filename", fh.Filename, "count", res.Count)
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"message": "Users created successfully",
		"count":   res.Count,
		"users":   res.Users,
	})
}

func (h *UsersHandler) importError(c *fiber.Ctx, filename string, err error) error {
	var rej *importer.RejectionError
	if errors.As(err, &rej) {
		h.log.Info("bulk import rejected", "filename", filename, "stage", string(rej.Stage))
		switch rej.Stage {
		case importer.StageStructure:
			return presenter.Rejection(c, "Invalid Excel structure", fiber.Map{
				"message":           "Missing columns: " + strings.Join(rej.MissingColumns, ", "),
				"missingColumns":    rej.MissingColumns,
				"expectedStructure": importer.ExpectedStructure,
			})
		case importer.StageRows:
			return presenter.Rejection(c, "Validation errors found", fiber.Map{
				"rowErrors": rej.RowErrors,
			})
		case importer.StageDuplicates:
			return presenter.Rejection(c, "Duplicate emails found in Excel file", fiber.Map{
				"duplicateEmails": rej.DuplicateEmails,
			})
		case importer.StageExisting:
			return presenter.Rejection(c, "Emails already exist in database", fiber.Map{
				"duplicateEmails": rej.DuplicateEmails,
			})
		}
	}
	switch {
	case errors.Is(err, importer.ErrUnsupportedFormat), errors.Is(err, importer.ErrEmptySheet):
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, importer.ErrUnreadable):
		return presenter.Error(c, http.StatusBadRequest, importer.ErrUnreadable.Error())
	}
	h.log.Error("bulk import failed", "filename", filename, "err", err)
	return presenter.Error(c, http.StatusInternalServerError, "Failed to process file")
}

var errFileTooLarge = errors.New("file too large")

func readAtMost(f io.Reader, max int64) ([]byte, error) {
	limited := io.LimitReader(f, max+1)
	b, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if int64(len(b)) > max {
		return nil, errFileTooLarge
	}
	return b, nil
}
