package services

import (
	"context"
	"errors"

	"github.com/dimitrije/passvault/internal/database"
	"github.com/dimitrije/passvault/internal/models"
	"github.com/google/uuid"
)

var ErrVaultItemNotFound = errors.New("vault item not found")

// VaultService stores and retrieves encrypted vault items. Every statement
// is scoped by owner_id, which is always taken from the validated session
// token, never from the request body. The service treats iv/ciphertext as
// opaque strings: nothing on the server can or does decrypt them.
type VaultService struct {
	db *database.DB
}

func NewVaultService(db *database.DB) *VaultService {
	return &VaultService{db: db}
}

func (s *VaultService) List(ctx context.Context, ownerID uuid.UUID) ([]models.VaultItem, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, owner_id, title, iv, ciphertext, created_at, updated_at
		FROM vault_items
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.VaultItem
	for rows.Next() {
		var item models.VaultItem
		if err := rows.Scan(
			&item.ID, &item.OwnerID, &item.Title, &item.IV, &item.Ciphertext,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *VaultService) Create(ctx context.Context, ownerID uuid.UUID, title, iv, ciphertext string) (*models.VaultItem, error) {
	var item models.VaultItem
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO vault_items (owner_id, title, iv, ciphertext)
		VALUES ($1, $2, $3, $4)
		RETURNING id, owner_id, title, iv, ciphertext, created_at, updated_at
	`, ownerID, title, iv, ciphertext).Scan(
		&item.ID, &item.OwnerID, &item.Title, &item.IV, &item.Ciphertext,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByID returns ErrVaultItemNotFound for both a missing item and an item
// owned by someone else; the two cases are indistinguishable by design.
func (s *VaultService) GetByID(ctx context.Context, itemID, ownerID uuid.UUID) (*models.VaultItem, error) {
	var item models.VaultItem
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, owner_id, title, iv, ciphertext, created_at, updated_at
		FROM vault_items
		WHERE id = $1 AND owner_id = $2
	`, itemID, ownerID).Scan(
		&item.ID, &item.OwnerID, &item.Title, &item.IV, &item.Ciphertext,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, ErrVaultItemNotFound
	}
	return &item, nil
}

// Update replaces fields in place. iv and ciphertext always travel together
// (the handler enforces that), so an edited item gets a whole new envelope
// and the old ciphertext is discarded; there is no version history.
func (s *VaultService) Update(ctx context.Context, itemID, ownerID uuid.UUID, title, iv, ciphertext *string) (*models.VaultItem, error) {
	var item models.VaultItem
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE vault_items
		SET title = COALESCE($1, title),
		    iv = COALESCE($2, iv),
		    ciphertext = COALESCE($3, ciphertext),
		    updated_at = NOW()
		WHERE id = $4 AND owner_id = $5
		RETURNING id, owner_id, title, iv, ciphertext, created_at, updated_at
	`, title, iv, ciphertext, itemID, ownerID).Scan(
		&item.ID, &item.OwnerID, &item.Title, &item.IV, &item.Ciphertext,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, ErrVaultItemNotFound
	}
	return &item, nil
}

func (s *VaultService) Delete(ctx context.Context, itemID, ownerID uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `
		DELETE FROM vault_items WHERE id = $1 AND owner_id = $2
	`, itemID, ownerID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrVaultItemNotFound
	}
	return nil
}
