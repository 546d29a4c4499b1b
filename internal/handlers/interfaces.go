package handlers

import (
	"context"

	"github.com/dimitrije/passvault/internal/models"
	"github.com/google/uuid"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	Create(ctx context.Context, username, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// VaultServiceInterface defines the methods used by handlers from VaultService
type VaultServiceInterface interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]models.VaultItem, error)
	Create(ctx context.Context, ownerID uuid.UUID, title, iv, ciphertext string) (*models.VaultItem, error)
	GetByID(ctx context.Context, itemID, ownerID uuid.UUID) (*models.VaultItem, error)
	Update(ctx context.Context, itemID, ownerID uuid.UUID, title, iv, ciphertext *string) (*models.VaultItem, error)
	Delete(ctx context.Context, itemID, ownerID uuid.UUID) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	Issue(userID uuid.UUID) (string, error)
}
