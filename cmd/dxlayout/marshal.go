package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/go-cmp/cmp"
	"github.com/google/subcommands"

	"github.com/gogpu/dxinterop/directml"
	"github.com/gogpu/dxinterop/mem"
)

// marshalCmd implements subcommands.Command for the "marshal" command.
type marshalCmd struct {
	out    io.Writer
	config string
	dump   bool
}

// Name implements subcommands.Command.
func (*marshalCmd) Name() string { return "marshal" }

// Synopsis implements subcommands.Command.
func (*marshalCmd) Synopsis() string {
	return "marshal an operator described in TOML and verify the round trip"
}

// Usage implements subcommands.Command.
func (*marshalCmd) Usage() string {
	return "marshal -config <file.toml> [-dump]\n"
}

// SetFlags implements subcommands.Command.
func (c *marshalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "", "TOML operator description.")
	f.BoolVar(&c.dump, "dump", false, "hex dump the native operator desc.")
}

// Execute implements subcommands.Command.
func (c *marshalCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.config == "" || f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if err := c.run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *marshalCmd) run() error {
	cfg, err := loadConfig(c.config)
	if err != nil {
		return err
	}
	desc, err := cfg.description()
	if err != nil {
		return fmt.Errorf("%s: %w", c.config, err)
	}

	tr := mem.NewTracking(nil)
	prev := mem.SetAllocator(tr)
	defer mem.SetAllocator(prev)

	native, err := directml.Marshal(desc)
	if err != nil {
		return err
	}
	defer native.Free()

	allocs, _ := tr.Stats()
	fmt.Fprintf(c.out, "%v: %d blocks, %d bytes at %p\n", native.Type(), tr.Live(), tr.Bytes(), native.Pointer())

	if c.dump {
		op, opDesc := native.Bytes()
		fmt.Fprintf(c.out, "DML_OPERATOR_DESC:\n%s", hex.Dump(op))
		fmt.Fprintf(c.out, "%v desc:\n%s", native.Type(), hex.Dump(opDesc))
	}

	got, err := native.Unmarshal()
	if err != nil {
		return fmt.Errorf("read back: %w", err)
	}
	if diff := cmp.Diff(desc, got); diff != "" {
		return fmt.Errorf("read back differs (-marshaled +read):\n%s", diff)
	}

	native.Free()
	if err := tr.Err(); err != nil {
		return err
	}
	if n := tr.Live(); n != 0 {
		return fmt.Errorf("%d of %d blocks still live after free", n, allocs)
	}
	fmt.Fprintf(c.out, "round trip ok, %d blocks freed\n", allocs)
	return nil
}
