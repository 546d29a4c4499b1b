package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTService(t *testing.T) {
	svc := NewJWTService("secret", 168*time.Hour)

	assert.NotNil(t, svc)
	assert.Equal(t, 168*time.Hour, svc.Expiry())
}

func TestJWTService_Issue(t *testing.T) {
	svc := NewJWTService("test-secret", 168*time.Hour)
	userID := uuid.New()

	token, err := svc.Issue(userID)

	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestJWTService_Validate_Valid(t *testing.T) {
	svc := NewJWTService("test-secret", 168*time.Hour)
	userID := uuid.New()

	token, err := svc.Issue(userID)
	require.NoError(t, err)

	claims, err := svc.Validate(token)

	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "passvault-api", claims.Issuer)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestJWTService_Validate_WrongSecret(t *testing.T) {
	svc1 := NewJWTService("secret-1", 168*time.Hour)
	svc2 := NewJWTService("secret-2", 168*time.Hour)

	token, err := svc1.Issue(uuid.New())
	require.NoError(t, err)

	_, err = svc2.Validate(token)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse token")
}

func TestJWTService_Validate_Expired(t *testing.T) {
	svc := NewJWTService("test-secret", 1*time.Millisecond)

	token, err := svc.Issue(uuid.New())
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = svc.Validate(token)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse token")
}

func TestJWTService_Validate_MalformedToken(t *testing.T) {
	svc := NewJWTService("test-secret", 168*time.Hour)

	testCases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt-token"},
		{"partial jwt", "eyJhbGciOiJIUzI1NiJ9."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Validate(tc.token)
			assert.Error(t, err)
		})
	}
}

func TestJWTService_Validate_MissingUserID(t *testing.T) {
	svc := NewJWTService("test-secret", 168*time.Hour)

	// A token with the zero UUID fails structural validation even though
	// the signature and expiry are fine.
	token, err := svc.Issue(uuid.Nil)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.Error(t, err)
}
