package kdf

import (
	"context"
	"encoding/hex"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeDeriver struct {
	mu    sync.Mutex
	inUse int64
	peak  int64
	calls int

	hold  time.Duration
	block chan struct{}
	err   error
}

var _ Deriver = (*fakeDeriver)(nil)

func (f *fakeDeriver) Derive(_, _ []byte, length int, cost CostParameters) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	f.inUse += int64(cost.MemoryKiB)
	if f.inUse > f.peak {
		f.peak = f.inUse
	}
	f.mu.Unlock()

	if f.block != nil {
		<-f.block
	}
	time.Sleep(f.hold)

	f.mu.Lock()
	f.inUse -= int64(cost.MemoryKiB)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return make([]byte, length), nil
}

func TestLimiter_BoundsConcurrentMemory(t *testing.T) {
	t.Parallel()

	f := &fakeDeriver{hold: 10 * time.Millisecond}
	l := NewLimiter(f, 100)
	cost := CostParameters{Time: 1, MemoryKiB: 40, Parallelism: 1}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key, err := l.Derive(context.Background(), []byte("pw"), []byte("salt-salt"), 16, cost)
			if err != nil || len(key) != 16 {
				t.Errorf("Derive: len=%d err=%v", len(key), err)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 8, f.calls)
	require.LessOrEqual(t, f.peak, int64(80), "at most two 40 KiB calls fit in 100 KiB")
	require.Positive(t, f.peak)
}

func TestLimiter_CostAboveBudgetRunsAlone(t *testing.T) {
	t.Parallel()

	f := &fakeDeriver{}
	l := NewLimiter(f, 16)
	require.Equal(t, int64(16), l.BudgetKiB())

	key, err := l.Derive(context.Background(), []byte("pw"), []byte("salt-salt"), 8,
		CostParameters{Time: 1, MemoryKiB: 1024, Parallelism: 1})
	require.NoError(t, err)
	require.Len(t, key, 8)
}

func TestLimiter_ContextCancelsWait(t *testing.T) {
	t.Parallel()

	f := &fakeDeriver{block: make(chan struct{})}
	l := NewLimiter(f, 64)
	cost := CostParameters{Time: 1, MemoryKiB: 64, Parallelism: 1}

	done := make(chan error, 1)
	go func() {
		_, err := l.Derive(context.Background(), []byte("pw"), []byte("salt-salt"), 8, cost)
		done <- err
	}()

	// Wait until the first call holds the budget.
	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.calls == 1
	}, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := l.Derive(ctx, []byte("pw"), []byte("salt-salt"), 8, cost)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(f.block)
	require.NoError(t, <-done)
}

func TestLimiter_InvalidCostFailsBeforeWaiting(t *testing.T) {
	t.Parallel()

	f := &fakeDeriver{}
	l := NewLimiter(f, 64)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.Derive(ctx, []byte("pw"), []byte("salt-salt"), 8, CostParameters{})
	require.ErrorIs(t, err, ErrInvalidCost)
	require.Zero(t, f.calls)
}

func TestLimiter_InvalidSaltAndLengthFailBeforeWaiting(t *testing.T) {
	t.Parallel()

	f := &fakeDeriver{}
	l := NewLimiter(f, 64)
	cost := CostParameters{Time: 1, MemoryKiB: 64, Parallelism: 1}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Derive(ctx, []byte("pw"), nil, 32, cost)
	require.ErrorIs(t, err, ErrInvalidSalt)

	_, err = l.Derive(ctx, []byte("pw"), []byte("0123456789abcdef"), 0, cost)
	require.ErrorIs(t, err, ErrInvalidLength)
	require.Zero(t, f.calls)
}

func TestLimiter_InvalidInputDoesNotQueueBehindBusyBudget(t *testing.T) {
	t.Parallel()

	f := &fakeDeriver{block: make(chan struct{})}
	l := NewLimiter(f, 64)
	cost := CostParameters{Time: 1, MemoryKiB: 64, Parallelism: 1}

	done := make(chan error, 1)
	go func() {
		_, err := l.Derive(context.Background(), []byte("pw"), []byte("salt-salt"), 8, cost)
		done <- err
	}()
	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.calls == 1
	}, time.Second, time.Millisecond)

	// The budget is held; invalid input must still fail immediately.
	_, err := l.Derive(context.Background(), []byte("pw"), []byte("short"), 32, cost)
	require.ErrorIs(t, err, ErrInvalidSalt)

	close(f.block)
	require.NoError(t, <-done)
}

func TestLimiter_HonorsStrictSalt(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := NewLimiter(Argon2id{StrictSalt: true}, 64)

	_, err := l.Derive(ctx, []byte("pw"), []byte("12345678"), 32, CostParameters{Time: 1, MemoryKiB: 64, Parallelism: 1})
	require.ErrorIs(t, err, ErrInvalidSalt)
}

func TestLimiter_PropagatesDeriverError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	l := NewLimiter(&fakeDeriver{err: boom}, 0)
	require.Equal(t, int64(DefaultCost.MemoryKiB), l.BudgetKiB())

	_, err := l.Derive(context.Background(), []byte("pw"), []byte("salt-salt"), 8, DefaultCost)
	require.ErrorIs(t, err, boom)
}

func TestLimiter_WithArgon2id(t *testing.T) {
	t.Parallel()

	l := NewLimiter(Argon2id{}, 256)
	key, err := l.Derive(context.Background(), []byte("password"), []byte("somesalt"), 32,
		CostParameters{Time: 2, MemoryKiB: 256, Parallelism: 1})
	require.NoError(t, err)
	require.Equal(t, referenceVectors[0].want, hex.EncodeToString(key))
}
