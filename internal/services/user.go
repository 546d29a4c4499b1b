package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/passvault/internal/database"
	"github.com/dimitrije/passvault/internal/models"
	"github.com/dimitrije/passvault/pkg/vaultcrypto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor for the login verifier. The verifier path is
// independent of the encryption-key derivation: bcrypt self-salts, so a
// leaked password_hash column reveals nothing about the encryption salt or
// the derived key.
const bcryptCost = 12

var (
	ErrEmailTaken         = errors.New("user already exists with this email")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

type UserService struct {
	db     *database.DB
	crypto *vaultcrypto.Provider
}

func NewUserService(db *database.DB, crypto *vaultcrypto.Provider) *UserService {
	return &UserService{db: db, crypto: crypto}
}

// Create registers a new account: bcrypt-hashes the login password and
// generates the account's encryption salt. The salt is written exactly once
// here and no statement in this repository ever updates it.
func (s *UserService) Create(ctx context.Context, username, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	salt, err := s.crypto.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate encryption salt: %w", err)
	}

	var user models.User
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, encryption_salt)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, email, password_hash, encryption_salt, created_at, updated_at
	`, username, email, string(hash), salt).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.EncryptionSalt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// Authenticate verifies the login password against the stored bcrypt hash.
// Unknown email and wrong password both return ErrInvalidCredentials so the
// response cannot be used to probe which accounts exist.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, encryption_salt, created_at, updated_at
		FROM users WHERE id = $1
	`, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.EncryptionSalt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, encryption_salt, created_at, updated_at
		FROM users WHERE email = $1
	`, email).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.EncryptionSalt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}
