package users

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInput_Valid(t *testing.T) {
	age := 0
	in := CreateInput{FirstName: "A", LastName: "B", Email: "a@b.co", Age: &age, Password: "123456"}
	require.NoError(t, in.Validate())
}

func TestCreateInput_PasswordTooLongForBcrypt(t *testing.T) {
	age := 1
	in := CreateInput{FirstName: "A", LastName: "B", Email: "a@b.co", Age: &age, Password: strings.Repeat("x", MaxPasswordBytes+1)}
	err := in.Validate()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []FieldError{{Field: "password", Message: "Password must be at most 72 bytes"}}, verr.Fields)
	assert.Contains(t, err.Error(), "at most 72 bytes")
}

func TestValidate_UnknownRuleFallsBack(t *testing.T) {
	type sample struct {
		Code string `json:"code" validate:"len=3"`
	}
	got := Validate(sample{Code: "x"}, Messages{})
	assert.Equal(t, []FieldError{{Field: "code", Message: "code is invalid"}}, got)
}
