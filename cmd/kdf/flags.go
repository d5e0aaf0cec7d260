package main

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/and161185/argon2kdf/internal/config"
	"github.com/and161185/argon2kdf/kdf"
)

// costFlags override profile values only when set on the command line.
type costFlags struct {
	time        uint32
	memory      uint32
	parallelism uint8
	length      int
}

func (f *costFlags) register(fs *pflag.FlagSet) {
	fs.Uint32Var(&f.time, "time", kdf.DefaultCost.Time, "passes over memory")
	fs.Uint32Var(&f.memory, "memory", kdf.DefaultCost.MemoryKiB, "memory in KiB")
	fs.Uint8Var(&f.parallelism, "parallelism", kdf.DefaultCost.Parallelism, "lanes")
	fs.IntVar(&f.length, "length", kdf.DefaultKeyLen, "key length in bytes")
}

func (f *costFlags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("time") {
		cfg.Cost.Time = f.time
	}
	if fs.Changed("memory") {
		cfg.Cost.MemoryKiB = f.memory
	}
	if fs.Changed("parallelism") {
		cfg.Cost.Parallelism = f.parallelism
	}
	if fs.Changed("length") {
		cfg.Length = f.length
	}
}

func encode(w io.Writer, b []byte, encoding string) error {
	var err error
	switch encoding {
	case "hex":
		_, err = fmt.Fprintln(w, hex.EncodeToString(b))
	case "base64":
		_, err = fmt.Fprintln(w, base64.StdEncoding.EncodeToString(b))
	case "raw":
		_, err = w.Write(b)
	default:
		err = fmt.Errorf("unknown encoding %q (want hex, base64 or raw)", encoding)
	}
	return err
}
