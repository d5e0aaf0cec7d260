// Package observe wraps a kdf.Deriver with structured logging.
package observe

import (
	"errors"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/argon2kdf/kdf"
)

// Deriver logs every derivation it forwards. Only metadata is logged: lengths,
// cost and timing. Password, salt and key bytes never reach the logger.
type Deriver struct {
	next kdf.Deriver
	log  *zap.Logger
}

var (
	_ kdf.Deriver   = (*Deriver)(nil)
	_ kdf.Validator = (*Deriver)(nil)
)

// New wraps next. A nil logger discards output.
func New(next kdf.Deriver, log *zap.Logger) *Deriver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Deriver{next: next, log: log}
}

// Derive forwards to the wrapped Deriver and returns its result unchanged.
// A panic below is logged and reported as kdf.ErrAlgorithmFailure.
func (d *Deriver) Derive(password, salt []byte, length int, cost kdf.CostParameters) (key []byte, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("derive panic",
				zap.Any("reason", r),
				zap.ByteString("stack", debug.Stack()),
			)
			key, err = nil, &kdf.AlgorithmError{Cause: r}
		}
	}()

	key, err = d.next.Derive(password, salt, length, cost)

	fields := []zap.Field{
		zap.Int("length", length),
		zap.Int("salt_len", len(salt)),
		zap.Uint32("time", cost.Time),
		zap.Uint32("memory_kib", cost.MemoryKiB),
		zap.Uint8("parallelism", cost.Parallelism),
		zap.Duration("dur", time.Since(start)),
	}
	switch {
	case err != nil:
		d.log.Error("derive failed", append(fields, zap.Error(err))...)
	case errors.Is(kdf.CheckSalt(salt), kdf.ErrWeakSalt):
		d.log.Warn("derive with weak salt", fields...)
	default:
		d.log.Debug("derive", fields...)
	}
	return key, err
}

// Validate forwards to the wrapped Deriver's Validate, or applies the default
// kdf.Argon2id rules when it has none.
func (d *Deriver) Validate(salt []byte, length int, cost kdf.CostParameters) error {
	if v, ok := d.next.(kdf.Validator); ok {
		return v.Validate(salt, length, cost)
	}
	return kdf.Argon2id{}.Validate(salt, length, cost)
}
