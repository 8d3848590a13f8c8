package importer

import (
	"math"
	"strconv"
	"strings"

	"github.com/artem13815/useradmin/pkg/users"
)

// Columns every import sheet must declare, in display order.
var Columns = []string{"name", "surname", "email", "age", "password"}

// ExpectedStructure is shown to uploaders next to a structural rejection.
const ExpectedStructure = "name | surname | email | age | password"

// Row is one accepted spreadsheet row.
type Row struct {
	Name     string `json:"name" validate:"required"`
	Surname  string `json:"surname" validate:"required"`
	Email    string `json:"email" validate:"email"`
	Age      int    `json:"age" validate:"gte=0,lte=2147483647"`
	Password string `json:"password" validate:"min=6,bcryptlen"`
}

var rowMessages = users.Messages{
	"Name.required":      "First name is required",
	"Surname.required":   "Surname is required",
	"Email.email":        "Invalid email address",
	"Age.gte":            "Age must be a positive number",
	"Age.lte":            "Age is too large",
	"Password.min":       "Password must be at least 6 characters",
	"Password.bcryptlen": "Password must be at most 72 bytes",
}

// Candidate is a parsed row tagged as either valid (no Errors) or rejected.
type Candidate struct {
	Line   int
	Row    Row
	Errors []string
}

func (c Candidate) Valid() bool { return len(c.Errors) == 0 }

// RowError reports every failed rule of one rejected row.
type RowError struct {
	Row    int      `json:"row"`
	Errors []string `json:"errors"`
}

// MissingColumns returns the required columns absent from header, in the
// order of Columns.
func MissingColumns(header []string) []string {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[normalizeColumn(h)] = true
	}
	var missing []string
	for _, col := range Columns {
		if !have[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// Classify validates every row independently.
func Classify(rows []SheetRow) []Candidate {
	out := make([]Candidate, 0, len(rows))
	for _, r := range rows {
		out = append(out, classify(r))
	}
	return out
}

func classify(r SheetRow) Candidate {
	row := Row{
		Name:     strings.TrimSpace(r.Cells["name"]),
		Surname:  strings.TrimSpace(r.Cells["surname"]),
		Email:    strings.TrimSpace(r.Cells["email"]),
		Password: r.Cells["password"],
	}
	age, ageErr := parseAge(r.Cells["age"])
	row.Age = age

	byField := make(map[string][]string)
	if ageErr != "" {
		byField["age"] = append(byField["age"], ageErr)
	}
	for _, fe := range users.Validate(row, rowMessages) {
		byField[fe.Field] = append(byField[fe.Field], fe.Message)
	}
	var errs []string
	for _, col := range Columns {
		errs = append(errs, byField[col]...)
	}
	return Candidate{Line: r.Line, Row: row, Errors: errs}
}

// parseAge coerces the age cell to a whole number. Spreadsheet cells arrive
// as text, so "30" and "30.0" are both accepted.
func parseAge(cell string) (int, string) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, "Age is required"
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, ""
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, "Age must be a number"
	}
	if f != math.Trunc(f) {
		return 0, "Age must be a whole number"
	}
	if f < 0 {
		return 0, "Age must be a positive number"
	}
	if f > math.MaxInt32 {
		return 0, "Age is too large"
	}
	return int(f), ""
}

// RowErrors collects the errors of every rejected candidate.
func RowErrors(cs []Candidate) []RowError {
	var out []RowError
	for _, c := range cs {
		if !c.Valid() {
			out = append(out, RowError{Row: c.Line, Errors: c.Errors})
		}
	}
	return out
}

// DuplicateEmails returns each email that occurs more than once, in order of
// first occurrence.
func DuplicateEmails(rows []Row) []string {
	counts := make(map[string]int, len(rows))
	var order []string
	for _, r := range rows {
		if counts[r.Email] == 0 {
			order = append(order, r.Email)
		}
		counts[r.Email]++
	}
	var dups []string
	for _, e := range order {
		if counts[e] > 1 {
			dups = append(dups, e)
		}
	}
	return dups
}
