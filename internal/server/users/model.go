package users

import "time"

// User is an account record. The password is stored only as a salted
// SHA-256 verifier (base64 hash + base64 salt), never recoverably.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	PasswordSalt string
	CreatedAt    time.Time
}
