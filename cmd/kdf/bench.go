package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/and161185/argon2kdf/internal/crypto"
	"github.com/and161185/argon2kdf/internal/observe"
	"github.com/and161185/argon2kdf/kdf"
)

func newBenchCmd(a *app) *cobra.Command {
	var (
		cost   costFlags
		count  int
		budget int64
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time concurrent derivations under a memory budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			cost.apply(cmd.Flags(), &cfg)
			if cmd.Flags().Changed("memory-budget") {
				cfg.MemoryBudgetKiB = budget
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if count < 1 {
				return fmt.Errorf("count must be >= 1, got %d", count)
			}

			lim := kdf.NewLimiter(observe.New(kdf.Argon2id{}, a.log), cfg.MemoryBudgetKiB)
			durs := make([]time.Duration, count)
			g, ctx := errgroup.WithContext(cmd.Context())
			start := time.Now()
			for i := range durs {
				g.Go(func() error {
					salt, err := crypto.NewSalt(kdf.RecommendedSaltLen)
					if err != nil {
						return err
					}
					t0 := time.Now()
					if _, err := lim.Derive(ctx, []byte("benchmark"), salt, cfg.Length, cfg.Cost); err != nil {
						return err
					}
					durs[i] = time.Since(t0)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			total := time.Since(start)

			var sum, slowest time.Duration
			for _, d := range durs {
				sum += d
				slowest = max(slowest, d)
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"derivations=%d cost=%s length=%d budget_kib=%d total=%s mean=%s max=%s\n",
				count, cfg.Cost, cfg.Length, lim.BudgetKiB(), total, sum/time.Duration(count), slowest)
			return nil
		},
	}
	fs := cmd.Flags()
	cost.register(fs)
	fs.IntVar(&count, "count", 4, "number of concurrent derivations")
	fs.Int64Var(&budget, "memory-budget", 0, "memory budget in KiB (default from profile)")
	return cmd
}
