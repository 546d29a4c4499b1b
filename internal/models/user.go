package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the account record created at signup and read at login. The core
// never mutates it afterwards: EncryptionSalt in particular is fixed for the
// lifetime of the account, because every vault item is encrypted under a key
// derived from it on the client.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	EncryptionSalt string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
