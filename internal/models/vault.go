package models

import (
	"time"

	"github.com/google/uuid"
)

// VaultItem is one stored credential. Title is the only plaintext field the
// server ever holds; IV and Ciphertext are the base64-encoded envelope
// produced by the client and are opaque to every server component.
type VaultItem struct {
	ID         uuid.UUID `json:"id"`
	OwnerID    uuid.UUID `json:"-"`
	Title      string    `json:"title"`
	IV         string    `json:"iv"`
	Ciphertext string    `json:"ciphertext"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
