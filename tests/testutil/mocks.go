package testutil

import (
	"context"

	"github.com/dimitrije/passvault/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Create(ctx context.Context, username, email, password string) (*models.User, error) {
	args := m.Called(ctx, username, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockVaultService mocks the VaultService
type MockVaultService struct {
	mock.Mock
}

func (m *MockVaultService) List(ctx context.Context, ownerID uuid.UUID) ([]models.VaultItem, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VaultItem), args.Error(1)
}

func (m *MockVaultService) Create(ctx context.Context, ownerID uuid.UUID, title, iv, ciphertext string) (*models.VaultItem, error) {
	args := m.Called(ctx, ownerID, title, iv, ciphertext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VaultItem), args.Error(1)
}

func (m *MockVaultService) GetByID(ctx context.Context, itemID, ownerID uuid.UUID) (*models.VaultItem, error) {
	args := m.Called(ctx, itemID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VaultItem), args.Error(1)
}

func (m *MockVaultService) Update(ctx context.Context, itemID, ownerID uuid.UUID, title, iv, ciphertext *string) (*models.VaultItem, error) {
	args := m.Called(ctx, itemID, ownerID, title, iv, ciphertext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VaultItem), args.Error(1)
}

func (m *MockVaultService) Delete(ctx context.Context, itemID, ownerID uuid.UUID) error {
	args := m.Called(ctx, itemID, ownerID)
	return args.Error(0)
}

// MockJWTService mocks the JWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) Issue(userID uuid.UUID) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}
