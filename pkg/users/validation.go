package users

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// FieldError describes one failed rule on one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when input fails field validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Messages maps "StructField.tag" to a human readable message.
type Messages map[string]string

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	})
	return v
}

// Validate checks s against its `validate` tags and returns one FieldError per
// failed rule, in field order. Unknown rules fall back to a generic message.
func Validate(s any, messages Messages) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.StructField()+"."+fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		out = append(out, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}

// CreateInput is the payload for creating one user.
type CreateInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"email"`
	Age       *int   `json:"age" validate:"required,gte=0,lte=2147483647"`
	Password  string `json:"password" validate:"min=6,bcryptlen"`
}

var createMessages = Messages{
	"FirstName.required": "First name is required",
	"LastName.required":  "Last name is required",
	"Email.email":        "Invalid email address",
	"Age.required":       "Age is required",
	"Age.gte":            "Age must be a positive number",
	"Age.lte":            "Age is too large",
	"Password.min":       "Password must be at least 6 characters",
	"Password.bcryptlen": "Password must be at most 72 bytes",
}

// Validate returns a *ValidationError when in breaks a field rule.
func (in CreateInput) Validate() error {
	if fields := Validate(in, createMessages); len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
