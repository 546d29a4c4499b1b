package integration

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/dimitrije/passvault/internal/services"
	"github.com/dimitrije/passvault/pkg/vaultcrypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Integration_Create(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB, vaultcrypto.NewProvider())
	ctx := context.Background()

	user, err := svc.Create(ctx, "alice", "alice@example.com", "secret1")

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)

	// The password is stored only as a bcrypt hash.
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))

	// The salt is generated server-side: 16 random bytes, base64.
	salt, err := base64.StdEncoding.DecodeString(user.EncryptionSalt)
	require.NoError(t, err)
	assert.Len(t, salt, 16)
}

func TestUserService_Integration_Create_DuplicateEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB, vaultcrypto.NewProvider())
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "alice2", "alice@example.com", "other-password")
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestUserService_Integration_Create_SaltsAreUnique(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB, vaultcrypto.NewProvider())
	ctx := context.Background()

	user1, err := svc.Create(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	user2, err := svc.Create(ctx, "bob", "bob@example.com", "secret1")
	require.NoError(t, err)

	// Same password, different salt: the derived keys diverge too.
	assert.NotEqual(t, user1.EncryptionSalt, user2.EncryptionSalt)
	assert.NotEqual(t, user1.PasswordHash, user2.PasswordHash)
}

func TestUserService_Integration_Authenticate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB, vaultcrypto.NewProvider())
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, created.EncryptionSalt, user.EncryptionSalt)
}

func TestUserService_Integration_Authenticate_WrongPassword(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB, vaultcrypto.NewProvider())
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// Unknown email collapses to the same error as a wrong password.
	_, err = svc.Authenticate(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestAuth_Integration_LoginEnablesKeyDerivation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	provider := vaultcrypto.NewProvider()
	svc := services.NewUserService(tdb.DB, provider)
	jwtSvc := testJWT()
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	// The login flow hands the client a token and the salt; password plus
	// salt must reproduce the same key on every login.
	user, err := svc.Authenticate(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	token, err := jwtSvc.Issue(user.ID)
	require.NoError(t, err)
	claims, err := jwtSvc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)

	key1, err := provider.DeriveKey("secret1", user.EncryptionSalt)
	require.NoError(t, err)
	key2, err := provider.DeriveKey("secret1", user.EncryptionSalt)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)
	assert.Len(t, key1, vaultcrypto.KeySize)
}

func TestAuth_Integration_VerifierRotationKeepsKey(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	provider := vaultcrypto.NewProvider()
	svc := services.NewUserService(tdb.DB, provider)
	ctx := context.Background()

	user, err := svc.Create(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	keyBefore, err := provider.DeriveKey("secret1", user.EncryptionSalt)
	require.NoError(t, err)

	// Rehash the login verifier in place, as a bcrypt cost bump would.
	// The derived encryption key must be unaffected: the two password
	// uses share no state beyond the password itself.
	newHash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = tdb.DB.Pool.Exec(ctx,
		"UPDATE users SET password_hash = $1 WHERE id = $2", string(newHash), user.ID)
	require.NoError(t, err)

	rotated, err := svc.Authenticate(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	keyAfter, err := provider.DeriveKey("secret1", rotated.EncryptionSalt)
	require.NoError(t, err)
	assert.Equal(t, keyBefore, keyAfter)
}

func testJWT() *services.JWTService {
	return services.NewJWTService("integration-test-secret", 168*time.Hour)
}
