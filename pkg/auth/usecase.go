package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// AuthUseCase describes login behavior.
type AuthUseCase interface {
	Login(ctx context.Context, email, password string) (Session, error)
}

// Session is the result of a successful login.
type Session struct {
	User  User
	Token string
}

type authService struct {
	repo   UserRepository
	tokens TokenIssuer
}

// NewAuthService returns default implementation of AuthUseCase.
func NewAuthService(repo UserRepository, tokens TokenIssuer) AuthUseCase {
	return &authService{repo: repo, tokens: tokens}
}

func (s *authService) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("lookup user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(ctx, Claims{UserID: user.ID.String(), Email: user.Email})
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{User: user, Token: token}, nil
}
