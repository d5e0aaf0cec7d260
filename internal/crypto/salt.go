// Package crypto generates salts for callers of package kdf.
package crypto

import (
	"crypto/rand"
	"fmt"

	"github.com/and161185/argon2kdf/kdf"
)

// NewSalt returns n bytes from crypto/rand. n must be at least kdf.MinSaltLen.
func NewSalt(n int) ([]byte, error) {
	if n < kdf.MinSaltLen {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", kdf.ErrInvalidSalt, n, kdf.MinSaltLen)
	}
	salt := make([]byte, n)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("read random salt: %w", err)
	}
	return salt, nil
}
