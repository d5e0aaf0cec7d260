// Command kdf derives keys from passwords with Argon2id.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/and161185/argon2kdf/internal/config"
	"github.com/and161185/argon2kdf/internal/logging"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// app holds state shared by subcommands.
type app struct {
	cfgPath  string
	logLevel string
	logDev   bool

	cfg config.Config
	log *zap.Logger

	stdin   io.Reader
	stdinFd int // -1 when stdin is not a file
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "kdf",
		Short:         "Derive keys from passwords with Argon2id",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "YAML profile (cost, length, strict_salt, memory_budget_kib, log)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides profile)")
	pf.BoolVar(&a.logDev, "log-dev", false, "human-readable log output")

	root.AddCommand(
		newDeriveCmd(a),
		newSaltCmd(),
		newBenchCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the profile and builds the logger unless one is already set.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-dev") {
		cfg.Log.Development = a.logDev
	}
	a.cfg = cfg
	if a.log != nil {
		return nil
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

// execute runs root and flushes the logger, whether or not the command failed.
func (a *app) execute(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if a.log != nil {
		_ = a.log.Sync()
	}
	return err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kdf %s (%s)\n", version, buildDate)
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	a := &app{stdin: os.Stdin, stdinFd: int(os.Stdin.Fd())}
	err := a.execute(ctx, newRootCmd(a))
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "kdf:", err)
		os.Exit(1)
	}
}
