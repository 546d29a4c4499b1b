package dto

import "github.com/google/uuid"

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupResponse intentionally excludes the password hash and the
// encryption salt; the salt is only handed out on a successful login.
type SignupResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  LoginUserDTO `json:"user"`
}

// LoginUserDTO carries the encryption salt to the client so it can derive
// the vault key locally. The salt is not a secret; without the master
// password it is useless.
type LoginUserDTO struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	EncryptionSalt string    `json:"encryptionSalt"`
}
