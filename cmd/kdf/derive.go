package main

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/and161185/argon2kdf/internal/observe"
	"github.com/and161185/argon2kdf/kdf"
)

type deriveOpts struct {
	cost         costFlags
	saltHex      string
	saltBase64   string
	passwordFile string
	strictSalt   bool
	encoding     string
}

func newDeriveCmd(a *app) *cobra.Command {
	var o deriveOpts
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive a key from a password and salt",
		Long: `Derive a key from a password and salt with Argon2id.

The password is read from --password-file ("-" for stdin), from a terminal
prompt, or from stdin when it is not a terminal. One trailing newline is
stripped; all other bytes are used as-is. An empty password is rejected
whatever its source.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.derive(cmd, &o)
		},
	}
	fs := cmd.Flags()
	o.cost.register(fs)
	fs.StringVar(&o.saltHex, "salt", "", "salt, hex encoded")
	fs.StringVar(&o.saltBase64, "salt-base64", "", "salt, standard base64 encoded")
	fs.StringVar(&o.passwordFile, "password-file", "", `file holding the password ("-" for stdin)`)
	fs.BoolVar(&o.strictSalt, "strict-salt", false, "reject salts shorter than 16 bytes")
	fs.StringVar(&o.encoding, "encoding", "hex", "output encoding: hex, base64 or raw")
	cmd.MarkFlagsMutuallyExclusive("salt", "salt-base64")
	cmd.MarkFlagsOneRequired("salt", "salt-base64")
	return cmd
}

func (a *app) derive(cmd *cobra.Command, o *deriveOpts) error {
	cfg := a.cfg
	o.cost.apply(cmd.Flags(), &cfg)
	if cmd.Flags().Changed("strict-salt") {
		cfg.StrictSalt = o.strictSalt
	}
	if err := encode(io.Discard, nil, o.encoding); err != nil {
		return err
	}

	salt, err := decodeSalt(o.saltHex, o.saltBase64)
	if err != nil {
		return err
	}
	password, err := a.readPassword(o.passwordFile, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	defer clear(password)

	d := observe.New(kdf.Argon2id{StrictSalt: cfg.StrictSalt}, a.log)
	key, err := d.Derive(password, salt, cfg.Length, cfg.Cost)
	if err != nil {
		return err
	}
	defer clear(key)
	return encode(cmd.OutOrStdout(), key, o.encoding)
}

func decodeSalt(hexSalt, b64Salt string) ([]byte, error) {
	if b64Salt != "" {
		s, err := base64.StdEncoding.DecodeString(b64Salt)
		if err != nil {
			return nil, fmt.Errorf("salt: %w", err)
		}
		return s, nil
	}
	s, err := hex.DecodeString(hexSalt)
	if err != nil {
		return nil, fmt.Errorf("salt: %w", err)
	}
	return s, nil
}

var errEmptyPassword = errors.New("empty password")

// readPassword reads from path ("-" is stdin), prompts when stdin is a
// terminal, or reads stdin to EOF.
func (a *app) readPassword(path string, prompt io.Writer) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	switch {
	case path != "" && path != "-":
		b, err = os.ReadFile(path)
	case path == "" && a.stdinFd >= 0 && term.IsTerminal(a.stdinFd):
		fmt.Fprint(prompt, "Password: ")
		b, err = term.ReadPassword(a.stdinFd)
		fmt.Fprintln(prompt)
	default:
		b, err = io.ReadAll(a.stdin)
	}
	if err != nil {
		return nil, err
	}
	b = trimNewline(b)
	if len(b) == 0 {
		return nil, errEmptyPassword
	}
	return b, nil
}

// trimNewline strips one trailing "\n" or "\r\n".
func trimNewline(b []byte) []byte {
	if bytes.HasSuffix(b, []byte("\r\n")) {
		return b[:len(b)-2]
	}
	return bytes.TrimSuffix(b, []byte("\n"))
}
