package config

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/hkdf"
)

// Key labels for DeriveKey. Each consumer of SESSION_SECRET gets its own key.
const (
	KeySessionJWT = "devlink session jwt"
	KeyFlashAuth  = "devlink flash hmac"
	KeyFlashCrypt = "devlink flash aes"
)

// DevSecret returns a random secret for running without SESSION_SECRET.
// Sessions signed with it do not survive a restart.
func DevSecret() string {
	return fmt.Sprintf("%x", securecookie.GenerateRandomKey(32))
}

// DeriveKey expands secret into a 32-byte key bound to label.
func DeriveKey(secret, label string) ([]byte, error) {
	if secret == "" {
		return nil, fmt.Errorf("derive %q: empty secret", label)
	}
	key := make([]byte, 32)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(label))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive %q: %w", label, err)
	}
	return key, nil
}
