package kdf

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Limiter bounds the memory held by concurrent derivations.
//
// Each call reserves cost.MemoryKiB from the budget for its whole duration. A
// call whose cost exceeds the entire budget reserves all of it and runs alone.
type Limiter struct {
	next   Deriver
	check  Validator
	sem    *semaphore.Weighted
	budget int64
}

// NewLimiter wraps next with a memory budget in KiB. A non-positive budget
// falls back to one DefaultCost derivation at a time.
//
// Inputs are checked with next's Validate method when it has one, and with
// the default Argon2id rules otherwise.
func NewLimiter(next Deriver, budgetKiB int64) *Limiter {
	if budgetKiB <= 0 {
		budgetKiB = int64(DefaultCost.MemoryKiB)
	}
	check, ok := next.(Validator)
	if !ok {
		check = Argon2id{}
	}
	return &Limiter{next: next, check: check, sem: semaphore.NewWeighted(budgetKiB), budget: budgetKiB}
}

// BudgetKiB returns the configured memory budget.
func (l *Limiter) BudgetKiB() int64 { return l.budget }

// Derive waits for memory budget and then derives with the wrapped Deriver.
// Invalid inputs fail before waiting. ctx cancels only the wait; a started
// derivation always runs to completion.
func (l *Limiter) Derive(ctx context.Context, password, salt []byte, length int, cost CostParameters) ([]byte, error) {
	if err := l.check.Validate(salt, length, cost); err != nil {
		return nil, err
	}
	w := min(int64(cost.MemoryKiB), l.budget)
	if err := l.sem.Acquire(ctx, w); err != nil {
		return nil, err
	}
	defer l.sem.Release(w)

	return l.next.Derive(password, salt, length, cost)
}
