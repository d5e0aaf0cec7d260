package kdf

import (
	"fmt"

	"go.uber.org/multierr"
)

// Argon2 constraints (RFC 9106, section 3.1).
const (
	// MinSaltLen is the shortest salt the algorithm accepts.
	MinSaltLen = 8
	// RecommendedSaltLen is the shortest salt that CheckSalt considers strong.
	RecommendedSaltLen = 16

	// MinKeyLen is the shortest tag Argon2 defines.
	MinKeyLen = 4
	// MaxKeyLen is the longest tag Argon2 defines.
	MaxKeyLen = 1<<32 - 1
	// DefaultKeyLen is the key length used by DeriveKey.
	DefaultKeyLen = 32

	// minBlocksPerLane is the number of 1 KiB blocks each lane needs at minimum.
	minBlocksPerLane = 8
)

// CostParameters tunes the computational expense of a derivation.
type CostParameters struct {
	// Time is the number of passes over memory.
	Time uint32 `yaml:"time"`
	// MemoryKiB is the size of the memory matrix in KiB.
	MemoryKiB uint32 `yaml:"memory_kib"`
	// Parallelism is the number of lanes (and threads).
	Parallelism uint8 `yaml:"parallelism"`
}

// DefaultCost is t=3, m=64 MiB, p=2.
var DefaultCost = CostParameters{
	Time:        3,
	MemoryKiB:   64 * 1024,
	Parallelism: 2,
}

// NewCostParameters returns validated cost parameters.
func NewCostParameters(time, memoryKiB uint32, parallelism uint8) (CostParameters, error) {
	c := CostParameters{Time: time, MemoryKiB: memoryKiB, Parallelism: parallelism}
	if err := c.Validate(); err != nil {
		return CostParameters{}, err
	}
	return c, nil
}

// Validate reports every constraint the parameters violate. The returned error
// matches ErrInvalidCost.
func (c CostParameters) Validate() error {
	var err error
	if c.Time < 1 {
		err = multierr.Append(err, fmt.Errorf("%w: time must be >= 1, got %d", ErrInvalidCost, c.Time))
	}
	if c.Parallelism < 1 {
		err = multierr.Append(err, fmt.Errorf("%w: parallelism must be >= 1, got %d", ErrInvalidCost, c.Parallelism))
	}
	lanes := uint64(max(c.Parallelism, 1))
	if floor := minBlocksPerLane * lanes; uint64(c.MemoryKiB) < floor {
		err = multierr.Append(err, fmt.Errorf("%w: memory must be >= %d KiB for %d lane(s), got %d",
			ErrInvalidCost, floor, lanes, c.MemoryKiB))
	}
	return err
}

func (c CostParameters) String() string {
	return fmt.Sprintf("t=%d,m=%d,p=%d", c.Time, c.MemoryKiB, c.Parallelism)
}
