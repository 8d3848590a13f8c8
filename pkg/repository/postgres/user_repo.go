package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/useradmin/pkg/auth"
	"github.com/artem13815/useradmin/pkg/users"
)

// DB is the part of *pgxpool.Pool the repository uses.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ DB = (*pgxpool.Pool)(nil)

// UserRepository implements users.Repository and auth.UserRepository backed
// by PostgreSQL (pgx). Emails are stored exactly as given.
type UserRepository struct {
	pool DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{pool: db}
}

const userColumns = `id, first_name, last_name, email, age, password_hash, created_at`

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" // unique_violation
}

// whereClause renders the filter as a WHERE clause starting at placeholder $n.
func whereClause(f users.Filter, n int) (string, []any) {
	if f.Age == nil {
		return "", nil
	}
	return fmt.Sprintf(" WHERE age = $%d", n), []any{*f.Age}
}

func scanUser(row pgx.Row) (users.User, error) {
	var u users.User
	var createdAt time.Time
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Age, &u.PasswordHash, &createdAt); err != nil {
		return users.User{}, err
	}
	u.CreatedAt = createdAt.UTC()
	return u, nil
}

func (r *UserRepository) List(ctx context.Context, f users.Filter, limit, offset int) ([]users.User, error) {
	where, args := whereClause(f, 3)
	rows, err := r.pool.Query(ctx, `
SELECT `+userColumns+`
FROM users`+where+`
ORDER BY created_at, id
LIMIT $1 OFFSET $2
`, append([]any{limit, offset}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []users.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepository) Count(ctx context.Context, f users.Filter) (int, error) {
	where, args := whereClause(f, 1)
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users`+where, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (users.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, err
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash
		FROM users WHERE email = $1
	`, email)
	var user auth.User
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.User{}, auth.ErrNotFound
		}
		return auth.User{}, err
	}
	return user, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (r *UserRepository) ExistingEmails(ctx context.Context, emails []string) ([]string, error) {
	if len(emails) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT email FROM users WHERE email = ANY($1) ORDER BY email`, emails)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

const insertUser = `
INSERT INTO users (` + userColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

func insertArgs(u users.User) []any {
	return []any{u.ID, u.FirstName, u.LastName, u.Email, u.Age, u.PasswordHash, u.CreatedAt}
}

func (r *UserRepository) Create(ctx context.Context, u users.User) error {
	if _, err := r.pool.Exec(ctx, insertUser, insertArgs(u)...); err != nil {
		if isUniqueViolation(err) {
			return users.ErrEmailExists
		}
		return err
	}
	return nil
}

// CreateBatch inserts every user inside one transaction; the first failing
// row rolls the whole set back.
func (r *UserRepository) CreateBatch(ctx context.Context, us []users.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for _, u := range us {
		if _, err := tx.Exec(ctx, insertUser, insertArgs(u)...); err != nil {
			_ = tx.Rollback(ctx)
			if isUniqueViolation(err) {
				return users.ErrEmailExists
			}
			return fmt.Errorf("insert %s: %w", u.Email, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			return users.ErrEmailExists
		}
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *UserRepository) Upsert(ctx context.Context, u users.User) (bool, error) {
	tag, err := r.pool.Exec(ctx, insertUser+`ON CONFLICT (email) DO NOTHING`, insertArgs(u)...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
