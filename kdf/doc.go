// Package kdf derives fixed-length keys from passwords with Argon2id.
//
// The computation is delegated to golang.org/x/crypto/argon2. This package
// validates inputs before the primitive runs and guarantees the output
// contract: either exactly the requested number of bytes or an error, never a
// truncated or zeroed key.
//
//	cost, err := kdf.NewCostParameters(3, 64*1024, 2)
//	if err != nil {
//		return err
//	}
//	key, err := kdf.Derive(password, salt, 32, cost)
//
// Derivations are deliberately slow and memory-hard. Each call holds
// cost.MemoryKiB of memory while it runs; use a Limiter to bound the total
// when many derivations run concurrently.
//
// Salt generation, salt persistence and password policy are the caller's
// concern. Salts must be unique per derivation context and should be at least
// RecommendedSaltLen bytes from a cryptographically secure source.
package kdf
