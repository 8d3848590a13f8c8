package jwt

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/artem13815/useradmin/pkg/auth"
)

// Manager issues and verifies HS256 session tokens.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
	log    *slog.Logger
}

type Option func(*Manager)

// WithClock overrides the time source used for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger used to report rejected tokens.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

func NewManager(secret, issuer string, opts ...Option) *Manager {
	m := &Manager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    auth.SessionTTL,
		now:    time.Now,
		log:    slog.Default(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Claims carries the session identity next to the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

func (m *Manager) Issue(ctx context.Context, c auth.Claims) (string, error) {
	now := m.now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   c.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID: c.UserID,
		Email:  c.Email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

var errMissingIdentity = errors.New("token carries no user id")

// Verify returns the embedded identity when the signature, issuer and expiry
// all check out. Any failure is logged and reported as false.
func (m *Manager) Verify(tokenStr string) (auth.Claims, bool) {
	if tokenStr == "" {
		return auth.Claims{}, false
	}
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(m.issuer))
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, parserOpts...)
	if err == nil && claims.UserID == "" {
		err = errMissingIdentity
	}
	if err != nil {
		m.log.Warn("session token rejected", "err", err)
		return auth.Claims{}, false
	}
	return auth.Claims{UserID: claims.UserID, Email: claims.Email}, true
}
