package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/dimitrije/passvault/internal/database"
	"github.com/dimitrije/passvault/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values. The password is
// hashed with the minimum bcrypt cost to keep the suite fast.
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Username:       fmt.Sprintf("user%d", f.counter),
		Email:          fmt.Sprintf("user%d@example.com", f.counter),
		EncryptionSalt: "dGVzdC1zYWx0LTE2Ynl0ZQ==",
	}
	password := "test-password"

	for _, opt := range opts {
		opt(user, &password)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}
	user.PasswordHash = string(hash)

	ctx := context.Background()
	err = f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, encryption_salt)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, email, password_hash, encryption_salt, created_at, updated_at
	`, user.Username, user.Email, user.PasswordHash, user.EncryptionSalt).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.EncryptionSalt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User, *string)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User, _ *string) {
		u.Email = email
	}
}

// WithPassword sets the user's login password
func WithPassword(password string) UserOption {
	return func(_ *models.User, p *string) {
		*p = password
	}
}

// WithEncryptionSalt sets the user's encryption salt
func WithEncryptionSalt(salt string) UserOption {
	return func(u *models.User, _ *string) {
		u.EncryptionSalt = salt
	}
}

// CreateVaultItem creates a test vault item owned by the given user
func (f *Fixtures) CreateVaultItem(t *testing.T, owner *models.User, title, iv, ciphertext string) *models.VaultItem {
	t.Helper()

	var item models.VaultItem
	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO vault_items (owner_id, title, iv, ciphertext)
		VALUES ($1, $2, $3, $4)
		RETURNING id, owner_id, title, iv, ciphertext, created_at, updated_at
	`, owner.ID, title, iv, ciphertext).Scan(
		&item.ID, &item.OwnerID, &item.Title, &item.IV, &item.Ciphertext,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create vault item: %v", err)
	}

	return &item
}
