package dto

import "github.com/google/uuid"

type CreateVaultItemRequest struct {
	Title      string `json:"title"`
	IV         string `json:"iv"`
	Ciphertext string `json:"ciphertext"`
}

// UpdateVaultItemRequest allows partial updates: title may change alone,
// but iv and ciphertext must be supplied together since they form one
// envelope.
type UpdateVaultItemRequest struct {
	Title      *string `json:"title,omitempty"`
	IV         *string `json:"iv,omitempty"`
	Ciphertext *string `json:"ciphertext,omitempty"`
}

type VaultItemResponse struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	IV         string    `json:"iv"`
	Ciphertext string    `json:"ciphertext"`
	CreatedAt  string    `json:"created_at"`
	UpdatedAt  string    `json:"updated_at"`
}
