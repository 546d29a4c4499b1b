package client

import (
	"github.com/dimitrije/passvault/pkg/vaultcrypto"
	"github.com/google/uuid"
)

// Session is the explicit per-login context: the bearer token and the derived
// encryption key. It is created by Login, passed into every vault call, and
// never stored anywhere global. The key exists only in this value's memory;
// closing the session is the logout.
type Session struct {
	UserID   uuid.UUID
	Username string
	Email    string
	Token    string

	key []byte
}

// Close invalidates the session by wiping the derived key. The vault cannot
// be read again until a fresh Login re-derives the key from the password.
func (s *Session) Close() {
	vaultcrypto.Zero(s.key)
	s.key = nil
	s.Token = ""
}

func (s *Session) valid() bool {
	return s != nil && s.Token != "" && len(s.key) == vaultcrypto.KeySize
}
