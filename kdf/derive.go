package kdf

import (
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Deriver derives fixed-length keys from a password and salt.
type Deriver interface {
	Derive(password, salt []byte, length int, cost CostParameters) ([]byte, error)
}

// Argon2id derives keys with Argon2id (version 0x13). The zero value is ready
// to use and safe for concurrent use.
type Argon2id struct {
	// StrictSalt rejects salts shorter than RecommendedSaltLen.
	StrictSalt bool
}

// Validator checks derivation inputs without running the primitive.
type Validator interface {
	Validate(salt []byte, length int, cost CostParameters) error
}

var (
	_ Deriver   = Argon2id{}
	_ Validator = Argon2id{}
)

// Derive returns exactly length bytes derived from password and salt. Inputs are
// validated before any memory is allocated. On failure the key is nil.
func (a Argon2id) Derive(password, salt []byte, length int, cost CostParameters) ([]byte, error) {
	if err := a.Validate(salt, length, cost); err != nil {
		return nil, err
	}
	return idKey(password, salt, uint32(length), cost)
}

// Validate reports the first invalid input: salt, then length, then cost.
func (a Argon2id) Validate(salt []byte, length int, cost CostParameters) error {
	minSalt := MinSaltLen
	if a.StrictSalt {
		minSalt = RecommendedSaltLen
	}
	if len(salt) < minSalt {
		return fmt.Errorf("%w: %d bytes, need at least %d", ErrInvalidSalt, len(salt), minSalt)
	}
	if length < MinKeyLen || int64(length) > MaxKeyLen {
		return fmt.Errorf("%w: %d, must be in [%d, %d]", ErrInvalidLength, length, MinKeyLen, int64(MaxKeyLen))
	}
	return cost.Validate()
}

// idKey runs the primitive and turns its panics (allocation failures among them)
// into AlgorithmError.
func idKey(password, salt []byte, length uint32, cost CostParameters) (key []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			key, err = nil, &AlgorithmError{Cause: r}
		}
	}()

	key = argon2.IDKey(password, salt, cost.Time, cost.MemoryKiB, cost.Parallelism, length)
	if uint32(len(key)) != length {
		return nil, &AlgorithmError{Cause: fmt.Sprintf("produced %d bytes, want %d", len(key), length)}
	}
	return key, nil
}

// Derive derives a key with Argon2id using the default (non-strict) salt policy.
func Derive(password, salt []byte, length int, cost CostParameters) ([]byte, error) {
	return Argon2id{}.Derive(password, salt, length, cost)
}

// DeriveKey derives a DefaultKeyLen-byte key with DefaultCost.
func DeriveKey(password, salt []byte) ([]byte, error) {
	return Derive(password, salt, DefaultKeyLen, DefaultCost)
}

// CheckSalt reports ErrInvalidSalt for salts Derive rejects and ErrWeakSalt for
// salts it accepts below RecommendedSaltLen.
func CheckSalt(salt []byte) error {
	switch {
	case len(salt) < MinSaltLen:
		return fmt.Errorf("%w: %d bytes, need at least %d", ErrInvalidSalt, len(salt), MinSaltLen)
	case len(salt) < RecommendedSaltLen:
		return fmt.Errorf("%w: %d bytes, %d recommended", ErrWeakSalt, len(salt), RecommendedSaltLen)
	}
	return nil
}
