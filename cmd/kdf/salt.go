package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/and161185/argon2kdf/internal/crypto"
	"github.com/and161185/argon2kdf/kdf"
)

func newSaltCmd() *cobra.Command {
	var (
		length   int
		encoding string
	)
	cmd := &cobra.Command{
		Use:   "salt",
		Short: "Print a fresh random salt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if encoding == "raw" {
				return fmt.Errorf("salt encoding must be hex or base64")
			}
			s, err := crypto.NewSalt(length)
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), s, encoding)
		},
	}
	cmd.Flags().IntVar(&length, "length", kdf.RecommendedSaltLen, "salt length in bytes")
	cmd.Flags().StringVar(&encoding, "encoding", "hex", "output encoding: hex or base64")
	return cmd
}
