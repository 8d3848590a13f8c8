package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/useradmin/pkg/auth"
	"github.com/artem13815/useradmin/pkg/users"
)

var (
	_ users.Repository    = (*UserRepository)(nil)
	_ auth.UserRepository = (*UserRepository)(nil)
)

const (
	insertSQL  = `INSERT INTO users`
	columnsSQL = `id, first_name, last_name, email, age, password_hash, created_at`
)

var userCols = []string{"id", "first_name", "last_name", "email", "age", "password_hash", "created_at"}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *UserRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock, NewUserRepository(mock)
}

func sampleUser(email string) users.User {
	return users.User{
		ID:           uuid.New(),
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        email,
		Age:          36,
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func argsOf(u users.User) []any {
	return []any{u.ID, u.FirstName, u.LastName, u.Email, u.Age, u.PasswordHash, u.CreatedAt}
}

// rowOf renders u the way the driver returns it: the UUID as text.
func rowOf(u users.User) []any {
	row := argsOf(u)
	row[0] = u.ID.String()
	return row
}

var uniqueViolation = &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}

func TestWhereClause(t *testing.T) {
	where, args := whereClause(users.Filter{}, 1)
	assert.Empty(t, where)
	assert.Empty(t, args)

	age := 30
	where, args = whereClause(users.Filter{Age: &age}, 3)
	assert.Equal(t, " WHERE age = $3", where)
	assert.Equal(t, []any{30}, args)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(uniqueViolation))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", uniqueViolation)))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23514"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

func TestCreateBatch_CommitsAllRows(t *testing.T) {
	mock, repo := newMock(t)
	a, b := sampleUser("a@x.com"), sampleUser("b@x.com")

	mock.ExpectBegin()
	mock.ExpectExec(insertSQL).WithArgs(argsOf(a)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(insertSQL).WithArgs(argsOf(b)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateBatch(context.Background(), []users.User{a, b}))
}

func TestCreateBatch_SecondRowFailureRollsBack(t *testing.T) {
	mock, repo := newMock(t)
	a, b, c := sampleUser("a@x.com"), sampleUser("b@x.com"), sampleUser("c@x.com")

	mock.ExpectBegin()
	mock.ExpectExec(insertSQL).WithArgs(argsOf(a)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(insertSQL).WithArgs(argsOf(b)...).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.CreateBatch(context.Background(), []users.User{a, b, c})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NotErrorIs(t, err, users.ErrEmailExists)
}

func TestCreateBatch_UniqueViolationMapsToEmailExists(t *testing.T) {
	mock, repo := newMock(t)
	a, b := sampleUser("a@x.com"), sampleUser("b@x.com")

	mock.ExpectBegin()
	mock.ExpectExec(insertSQL).WithArgs(argsOf(a)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(insertSQL).WithArgs(argsOf(b)...).WillReturnError(uniqueViolation)
	mock.ExpectRollback()

	err := repo.CreateBatch(context.Background(), []users.User{a, b})
	require.ErrorIs(t, err, users.ErrEmailExists)
}

func TestCreateBatch_BeginFails(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("pool closed"))

	err := repo.CreateBatch(context.Background(), []users.User{sampleUser("a@x.com")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin")
}

func TestCreate_UniqueViolation(t *testing.T) {
	mock, repo := newMock(t)
	u := sampleUser("a@x.com")
	mock.ExpectExec(insertSQL).WithArgs(argsOf(u)...).WillReturnError(uniqueViolation)

	require.ErrorIs(t, repo.Create(context.Background(), u), users.ErrEmailExists)
}

func TestUpsert(t *testing.T) {
	mock, repo := newMock(t)
	u := sampleUser("admin@example.com")

	mock.ExpectExec(`ON CONFLICT \(email\) DO NOTHING`).WithArgs(argsOf(u)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	created, err := repo.Upsert(context.Background(), u)
	require.NoError(t, err)
	assert.True(t, created)

	mock.ExpectExec(`ON CONFLICT \(email\) DO NOTHING`).WithArgs(argsOf(u)...).WillReturnResult(pgxmock.NewResult("INSERT", 0))
	created, err = repo.Upsert(context.Background(), u)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestExistingEmails(t *testing.T) {
	mock, repo := newMock(t)
	emails := []string{"a@x.com", "b@x.com", "c@x.com"}

	mock.ExpectQuery(`SELECT email FROM users WHERE email = ANY\(\$1\)`).
		WithArgs(emails).
		WillReturnRows(pgxmock.NewRows([]string{"email"}).AddRow("a@x.com").AddRow("c@x.com"))

	got, err := repo.ExistingEmails(context.Background(), emails)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com", "c@x.com"}, got)
}

func TestExistingEmails_EmptyInputSkipsQuery(t *testing.T) {
	_, repo := newMock(t)

	got, err := repo.ExistingEmails(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestList_PlaceholdersWithAgeFilter(t *testing.T) {
	mock, repo := newMock(t)
	u := sampleUser("a@x.com")
	age := 36

	mock.ExpectQuery(`SELECT `+columnsSQL+`\s+FROM users WHERE age = \$3\s+ORDER BY created_at, id\s+LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 10, 36).
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(rowOf(u)...))

	got, err := repo.List(context.Background(), users.Filter{Age: &age}, 10, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, u, got[0])
}

func TestList_NoFilter(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`FROM users\s+ORDER BY created_at, id\s+LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 0).
		WillReturnRows(pgxmock.NewRows(userCols))

	got, err := repo.List(context.Background(), users.Filter{}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCount_WithAgeFilter(t *testing.T) {
	mock, repo := newMock(t)
	age := 30

	mock.ExpectQuery(`SELECT count\(\*\) FROM users WHERE age = \$1`).
		WithArgs(30).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(15))

	n, err := repo.Count(context.Background(), users.Filter{Age: &age})
	require.NoError(t, err)
	assert.Equal(t, 15, n)
}

func TestGetByID_NotFound(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.New()

	mock.ExpectQuery(`FROM users WHERE id = \$1`).WithArgs(id).WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), id)
	require.ErrorIs(t, err, users.ErrNotFound)
}

func TestGetByEmail(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT id, email, password_hash\s+FROM users WHERE email = \$1`).
		WithArgs("a@x.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash"}).AddRow(id.String(), "a@x.com", "$2a$10$hash"))

	u, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, auth.User{ID: id, Email: "a@x.com", PasswordHash: "$2a$10$hash"}, u)

	mock.ExpectQuery(`FROM users WHERE email = \$1`).WithArgs("ghost@x.com").WillReturnError(pgx.ErrNoRows)
	_, err = repo.GetByEmail(context.Background(), "ghost@x.com")
	require.ErrorIs(t, err, auth.ErrNotFound)
}
