package users

import (
	"time"

	"github.com/google/uuid"
)

// User is a stored user record. PasswordHash never leaves the service layer.
type User struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	Email        string
	Age          int
	PasswordHash string
	CreatedAt    time.Time
}

// PublicUser is the projection returned to API clients.
type PublicUser struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Age:       u.Age,
		CreatedAt: u.CreatedAt,
	}
}

// Filter narrows List and Count. A nil Age matches every user.
type Filter struct {
	Age *int
}

// Page is one page of users plus the total page count for the same filter.
type Page struct {
	Users      []PublicUser `json:"users"`
	TotalPages int          `json:"totalPages"`
}
