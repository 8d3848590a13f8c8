package auth

import (
	"time"

	"github.com/google/uuid"
)

// SessionTTL is how long an issued session token stays valid.
const SessionTTL = 24 * time.Hour

// User is the credential view of a stored user.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
}

// Claims is the identity carried inside a session token.
type Claims struct {
	UserID string
	Email  string
}
