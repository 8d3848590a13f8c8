package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("email already exists")
)

// Repository abstracts persistence of users.
type Repository interface {
	List(ctx context.Context, f Filter, limit, offset int) ([]User, error)
	Count(ctx context.Context, f Filter) (int, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// ExistingEmails returns the subset of emails already stored.
	ExistingEmails(ctx context.Context, emails []string) ([]string, error)
	// Create returns ErrEmailExists on a unique violation.
	Create(ctx context.Context, u User) error
	// CreateBatch inserts all users in one transaction or none of them.
	// A unique violation is reported as ErrEmailExists.
	CreateBatch(ctx context.Context, us []User) error
	// Upsert inserts u unless its email is already stored.
	Upsert(ctx context.Context, u User) (created bool, err error)
}
