package kdf

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Derive. Match them with errors.Is.
var (
	// ErrInvalidSalt indicates a salt shorter than the accepted minimum.
	ErrInvalidSalt = errors.New("kdf: invalid salt")

	// ErrWeakSalt is reported by CheckSalt for salts that are accepted but below
	// the recommended length.
	ErrWeakSalt = errors.New("kdf: weak salt")

	// ErrInvalidLength indicates a requested key length outside [MinKeyLen, MaxKeyLen].
	ErrInvalidLength = errors.New("kdf: invalid key length")

	// ErrInvalidCost indicates cost parameters that violate Argon2 constraints.
	ErrInvalidCost = errors.New("kdf: invalid cost parameters")

	// ErrAlgorithmFailure indicates the Argon2id primitive itself failed.
	ErrAlgorithmFailure = errors.New("kdf: argon2id failure")
)

// AlgorithmError carries the cause of a primitive failure.
type AlgorithmError struct {
	// Cause is the recovered panic value or a description of the broken output.
	Cause any
}

func (e *AlgorithmError) Error() string {
	return fmt.Sprintf("%v: %v", ErrAlgorithmFailure, e.Cause)
}

// Is reports ErrAlgorithmFailure as the error's identity.
func (e *AlgorithmError) Is(target error) bool { return target == ErrAlgorithmFailure }

// Unwrap exposes the cause when it is itself an error (runtime.Error, for example).
func (e *AlgorithmError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}
