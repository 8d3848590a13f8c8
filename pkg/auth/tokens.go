package auth

import "context"

// TokenIssuer creates signed session tokens.
type TokenIssuer interface {
	Issue(ctx context.Context, claims Claims) (string, error)
}

// TokenVerifier checks a session token. A false result means "no session",
// whatever the reason.
type TokenVerifier interface {
	Verify(token string) (Claims, bool)
}
