// Command dxlayout inspects the native structs written by the d3d11 and
// directml packages.
//
//	dxlayout layout [-pkg d3d11|directml]
//	dxlayout presets
//	dxlayout marshal -config op.toml [-dump]
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/google/subcommands"

	"github.com/gogpu/dxinterop"
)

var debug = flag.Bool("debug", false, "log allocations and marshaling to stderr")

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&layoutCmd{out: os.Stdout}, "")
	subcommands.Register(&presetsCmd{out: os.Stdout}, "")
	subcommands.Register(&marshalCmd{out: os.Stdout}, "")

	// All subcommands must be registered before flag parsing.
	flag.Parse()

	if *debug {
		dxinterop.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	os.Exit(int(subcommands.Execute(context.Background())))
}
