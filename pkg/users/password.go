package users

import "golang.org/x/crypto/bcrypt"

// HashCost is the bcrypt work factor for stored passwords.
const HashCost = bcrypt.DefaultCost

func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
