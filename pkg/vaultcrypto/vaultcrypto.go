// Package vaultcrypto implements the client-side cryptography for the vault:
// deriving a symmetric key from the master password and sealing/opening
// vault records with it. The server only ever sees the Envelope output of
// Seal; plaintext records and derived keys never leave the client process.
package vaultcrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// Iterations is the PBKDF2 iteration count. Changing it changes every
	// derived key, so existing vaults would become undecryptable.
	Iterations = 200_000

	KeySize   = 32
	SaltSize  = 16
	nonceSize = 12
)

var (
	// ErrInvalidSalt is returned when the stored encryption salt is not
	// valid base64. It is the only failure mode of DeriveKey.
	ErrInvalidSalt = errors.New("vaultcrypto: malformed encryption salt")

	// ErrDecryptFailed is returned for every Open failure: wrong key,
	// corrupted ciphertext, tampering. Callers cannot distinguish which.
	ErrDecryptFailed = errors.New("vaultcrypto: decryption failed")
)

// SecretRecord is the plaintext payload of a single vault item. It exists
// only in client memory; the persisted form is always an Envelope.
type SecretRecord struct {
	Username string `json:"username"`
	Password string `json:"password"`
	URL      string `json:"url"`
	Notes    string `json:"notes"`
}

// Envelope is one authenticated-encryption output: a random per-seal nonce
// and the AES-256-GCM ciphertext including its tag, both base64-encoded for
// transport and storage.
type Envelope struct {
	IV         string `json:"iv"`
	Ciphertext string `json:"ciphertext"`
}

// Provider bundles the cryptographic capabilities the vault core needs:
// key derivation, AEAD seal/open, and a random source. Tests inject a
// deterministic reader; production uses crypto/rand.
type Provider struct {
	rand io.Reader
}

func NewProvider() *Provider {
	return &Provider{rand: rand.Reader}
}

func NewProviderWithRand(r io.Reader) *Provider {
	return &Provider{rand: r}
}

// GenerateSalt returns a fresh base64-encoded random salt for a new account.
// The salt is generated exactly once at signup and must never change:
// losing or replacing it makes the vault permanently undecryptable.
func (p *Provider) GenerateSalt() (string, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(p.rand, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(salt), nil
}

// DeriveKey stretches the master password into a 256-bit AEAD key using
// PBKDF2-HMAC-SHA256. It is deterministic: the same password and salt always
// produce the same key, which is how every login recovers access to the
// vault without the key ever being stored anywhere.
func (p *Provider) DeriveKey(password, saltB64 string) ([]byte, error) {
	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return nil, ErrInvalidSalt
	}
	return pbkdf2.Key([]byte(password), salt, Iterations, KeySize, sha256.New), nil
}

// Seal serializes the record to JSON and encrypts it with AES-256-GCM under
// a fresh random 96-bit nonce. The nonce is drawn inside Seal and never
// supplied by callers, so nonce reuse under a key cannot happen by misuse.
func (p *Provider) Seal(key []byte, record SecretRecord) (Envelope, error) {
	plaintext, err := json.Marshal(record)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to serialize record: %w", err)
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return Envelope{}, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(p.rand, nonce); err != nil {
		return Envelope{}, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := aesgcm.Seal(nil, nonce, plaintext, nil)

	return Envelope{
		IV:         base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
	}, nil
}

// Open authenticates and decrypts an envelope produced by Seal. Every
// failure surfaces as ErrDecryptFailed; no partial plaintext is ever
// returned and the cause is deliberately not exposed.
func (p *Provider) Open(key []byte, env Envelope) (SecretRecord, error) {
	nonce, err := base64.StdEncoding.DecodeString(env.IV)
	if err != nil || len(nonce) != nonceSize {
		return SecretRecord{}, ErrDecryptFailed
	}
	ciphertext, err := base64.StdEncoding.DecodeString(env.Ciphertext)
	if err != nil {
		return SecretRecord{}, ErrDecryptFailed
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return SecretRecord{}, err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return SecretRecord{}, ErrDecryptFailed
	}

	var record SecretRecord
	if err := json.Unmarshal(plaintext, &record); err != nil {
		return SecretRecord{}, ErrDecryptFailed
	}
	return record, nil
}

// Zero overwrites key material in place. Called on logout so the derived
// key does not outlive the session.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("vaultcrypto: invalid key length %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
