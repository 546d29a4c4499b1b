// Package client is the vault sync client: it wraps the server's REST API
// and performs all encryption and decryption locally, so only titles and
// sealed envelopes ever cross the wire.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dimitrije/passvault/pkg/dto"
	"github.com/dimitrije/passvault/pkg/vaultcrypto"
	"github.com/google/uuid"
)

var (
	ErrUnauthorized = errors.New("client: unauthorized")
	ErrNotFound     = errors.New("client: not found")
	ErrNoSession    = errors.New("client: no active session")
)

// Item is the plaintext form of a vault entry as the user edits it. Only
// Title leaves the client unencrypted.
type Item struct {
	Title  string
	Secret vaultcrypto.SecretRecord
}

// DecryptedItem is one element of a DecryptAll result. When DecryptionError
// is set the secret fields are zero values: a record that fails
// authentication contributes no plaintext at all.
type DecryptedItem struct {
	ID              uuid.UUID
	Title           string
	Secret          vaultcrypto.SecretRecord
	CreatedAt       string
	UpdatedAt       string
	DecryptionError bool
}

type Client struct {
	baseURL string
	http    *http.Client
	crypto  *vaultcrypto.Provider
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		crypto:  vaultcrypto.NewProvider(),
	}
}

// Signup registers an account. No session is created: the caller logs in
// afterwards, which is also what derives the encryption key.
func (c *Client) Signup(ctx context.Context, username, email, password string) (*dto.SignupResponse, error) {
	var resp dto.SignupResponse
	err := c.do(ctx, http.MethodPost, "/auth/signup", "", dto.SignupRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates and derives the encryption key from the password and
// the account's salt. The password is used twice on two independent paths:
// it is sent for bcrypt verification and stretched locally with PBKDF2 for
// the key. Neither the key nor the salt derivation ever reaches the server.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", dto.LoginRequest{
		Email:    email,
		Password: password,
	}, &resp); err != nil {
		return nil, err
	}

	key, err := c.crypto.DeriveKey(password, resp.User.EncryptionSalt)
	if err != nil {
		return nil, fmt.Errorf("key derivation failed: %w", err)
	}

	return &Session{
		UserID:   resp.User.ID,
		Username: resp.User.Username,
		Email:    resp.User.Email,
		Token:    resp.Token,
		key:      key,
	}, nil
}

// Save seals the item under the session key and stores the envelope. The
// server stamps the owner from the token; no owner field is sent.
func (c *Client) Save(ctx context.Context, s *Session, item Item) (*dto.VaultItemResponse, error) {
	if !s.valid() {
		return nil, ErrNoSession
	}

	env, err := c.crypto.Seal(s.key, item.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to seal item: %w", err)
	}

	var resp dto.VaultItemResponse
	err = c.do(ctx, http.MethodPost, "/vault", s.Token, dto.CreateVaultItemRequest{
		Title:      item.Title,
		IV:         env.IV,
		Ciphertext: env.Ciphertext,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// List fetches the owner's envelopes without decrypting them. Pair with
// DecryptAll to obtain plaintext.
func (c *Client) List(ctx context.Context, s *Session) ([]dto.VaultItemResponse, error) {
	if !s.valid() {
		return nil, ErrNoSession
	}

	var items []dto.VaultItemResponse
	if err := c.do(ctx, http.MethodGet, "/vault", s.Token, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches and decrypts a single item.
func (c *Client) Get(ctx context.Context, s *Session, id uuid.UUID) (*DecryptedItem, error) {
	if !s.valid() {
		return nil, ErrNoSession
	}

	var item dto.VaultItemResponse
	if err := c.do(ctx, http.MethodGet, "/vault/"+id.String(), s.Token, nil, &item); err != nil {
		return nil, err
	}

	secret, err := c.crypto.Open(s.key, vaultcrypto.Envelope{IV: item.IV, Ciphertext: item.Ciphertext})
	if err != nil {
		return nil, err
	}

	return &DecryptedItem{
		ID:        item.ID,
		Title:     item.Title,
		Secret:    secret,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}, nil
}

// Update re-seals the item under a fresh nonce and replaces the stored
// envelope wholesale; the previous ciphertext is discarded by the server.
func (c *Client) Update(ctx context.Context, s *Session, id uuid.UUID, item Item) (*dto.VaultItemResponse, error) {
	if !s.valid() {
		return nil, ErrNoSession
	}

	env, err := c.crypto.Seal(s.key, item.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to seal item: %w", err)
	}

	title := item.Title
	var resp dto.VaultItemResponse
	err = c.do(ctx, http.MethodPut, "/vault/"+id.String(), s.Token, dto.UpdateVaultItemRequest{
		Title:      &title,
		IV:         &env.IV,
		Ciphertext: &env.Ciphertext,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes an item. A nonexistent id and another owner's id both
// surface as ErrNotFound.
func (c *Client) Delete(ctx context.Context, s *Session, id uuid.UUID) error {
	if !s.valid() {
		return ErrNoSession
	}
	return c.do(ctx, http.MethodDelete, "/vault/"+id.String(), s.Token, nil, nil)
}

// DecryptAll opens every envelope independently, preserving input order.
// An item that fails authentication is returned flagged with zero-value
// secret fields; it never aborts the batch, so one corrupted record cannot
// take the rest of the vault down with it.
func (c *Client) DecryptAll(s *Session, items []dto.VaultItemResponse) ([]DecryptedItem, error) {
	if !s.valid() {
		return nil, ErrNoSession
	}

	result := make([]DecryptedItem, 0, len(items))
	for _, item := range items {
		out := DecryptedItem{
			ID:        item.ID,
			Title:     item.Title,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		}

		secret, err := c.crypto.Open(s.key, vaultcrypto.Envelope{IV: item.IV, Ciphertext: item.Ciphertext})
		if err != nil {
			out.DecryptionError = true
		} else {
			out.Secret = secret
		}

		result = append(result, out)
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		return fmt.Errorf("client: %s", apiErrorMessage(resp))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func apiErrorMessage(resp *http.Response) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return resp.Status
}
