package services

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/passvault/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vaultItemColumns = []string{
	"id", "owner_id", "title", "iv", "ciphertext", "created_at", "updated_at",
}

func setupVaultService(t *testing.T) (*VaultService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewVaultService(db), mock
}

func TestVaultService_Create(t *testing.T) {
	svc, mock := setupVaultService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	itemID := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows(vaultItemColumns).
		AddRow(itemID, ownerID, "GitHub", "bm9uY2U=", "Y2lwaGVydGV4dA==", now, now)

	mock.ExpectQuery(`INSERT INTO vault_items`).
		WithArgs(ownerID, "GitHub", "bm9uY2U=", "Y2lwaGVydGV4dA==").
		WillReturnRows(rows)

	item, err := svc.Create(ctx, ownerID, "GitHub", "bm9uY2U=", "Y2lwaGVydGV4dA==")

	require.NoError(t, err)
	assert.Equal(t, itemID, item.ID)
	assert.Equal(t, ownerID, item.OwnerID)
	assert.Equal(t, "GitHub", item.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVaultService_List(t *testing.T) {
	svc, mock := setupVaultService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows(vaultItemColumns).
		AddRow(uuid.New(), ownerID, "GitHub", "aXYx", "Y3Qx", now, now).
		AddRow(uuid.New(), ownerID, "Bank", "aXYy", "Y3Qy", now, now)

	mock.ExpectQuery(`SELECT .+ FROM vault_items\s+WHERE owner_id`).
		WithArgs(ownerID).
		WillReturnRows(rows)

	items, err := svc.List(ctx, ownerID)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "GitHub", items[0].Title)
	assert.Equal(t, "Bank", items[1].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVaultService_List_Empty(t *testing.T) {
	svc, mock := setupVaultService(t)
	ctx := context.Background()
	ownerID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM vault_items\s+WHERE owner_id`).
		WithArgs(ownerID).
		WillReturnRows(pgxmock.NewRows(vaultItemColumns))

	items, err := svc.List(ctx, ownerID)

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVaultService_GetByID_ForeignOwner(t *testing.T) {
	svc, mock := setupVaultService(t)
	ctx := context.Background()
	itemID := uuid.New()
	ownerID := uuid.New()

	// The owner filter means a foreign item scans as no rows, exactly like
	// a missing one.
	mock.ExpectQuery(`SELECT .+ FROM vault_items\s+WHERE id`).
		WithArgs(itemID, ownerID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetByID(ctx, itemID, ownerID)

	assert.ErrorIs(t, err, ErrVaultItemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVaultService_Update(t *testing.T) {
	svc, mock := setupVaultService(t)
	ctx := context.Background()
	itemID := uuid.New()
	ownerID := uuid.New()
	now := time.Now()

	title := "GitHub (work)"
	iv := "bmV3aXY="
	ciphertext := "bmV3Y3Q="

	rows := pgxmock.NewRows(vaultItemColumns).
		AddRow(itemID, ownerID, title, iv, ciphertext, now, now)

	mock.ExpectQuery(`UPDATE vault_items`).
		WithArgs(&title, &iv, &ciphertext, itemID, ownerID).
		WillReturnRows(rows)

	item, err := svc.Update(ctx, itemID, ownerID, &title, &iv, &ciphertext)

	require.NoError(t, err)
	assert.Equal(t, title, item.Title)
	assert.Equal(t, iv, item.IV)
	assert.Equal(t, ciphertext, item.Ciphertext)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVaultService_Update_NotFound(t *testing.T) {
	svc, mock := setupVaultService(t)
	ctx := context.Background()
	itemID := uuid.New()
	ownerID := uuid.New()
	title := "anything"

	mock.ExpectQuery(`UPDATE vault_items`).
		WithArgs(&title, (*string)(nil), (*string)(nil), itemID, ownerID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Update(ctx, itemID, ownerID, &title, nil, nil)

	assert.ErrorIs(t, err, ErrVaultItemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVaultService_Delete(t *testing.T) {
	svc, mock := setupVaultService(t)
	ctx := context.Background()
	itemID := uuid.New()
	ownerID := uuid.New()

	mock.ExpectExec(`DELETE FROM vault_items`).
		WithArgs(itemID, ownerID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := svc.Delete(ctx, itemID, ownerID)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVaultService_Delete_NotFound(t *testing.T) {
	svc, mock := setupVaultService(t)
	ctx := context.Background()
	itemID := uuid.New()
	ownerID := uuid.New()

	mock.ExpectExec(`DELETE FROM vault_items`).
		WithArgs(itemID, ownerID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := svc.Delete(ctx, itemID, ownerID)

	assert.ErrorIs(t, err, ErrVaultItemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
