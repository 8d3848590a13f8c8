package auth

import (
	"context"
	"errors"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserRepository looks up credentials by email.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
}
