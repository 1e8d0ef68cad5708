package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/gogpu/dxinterop/d3d11"
	"github.com/gogpu/dxinterop/directml"
	"github.com/gogpu/dxinterop/mem"
)

// layoutCmd implements subcommands.Command for the "layout" command.
type layoutCmd struct {
	out io.Writer
	pkg string
}

// Name implements subcommands.Command.
func (*layoutCmd) Name() string { return "layout" }

// Synopsis implements subcommands.Command.
func (*layoutCmd) Synopsis() string { return "print native struct sizes and field offsets" }

// Usage implements subcommands.Command.
func (*layoutCmd) Usage() string {
	return "layout [-pkg d3d11|directml]\n"
}

// SetFlags implements subcommands.Command.
func (c *layoutCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.pkg, "pkg", "", "only show structs of this package (d3d11 or directml)")
}

// Execute implements subcommands.Command.
func (c *layoutCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	var layouts []mem.Layout
	switch c.pkg {
	case "":
		layouts = append(d3d11.NativeLayouts(), directml.NativeLayouts()...)
	case "d3d11":
		layouts = d3d11.NativeLayouts()
	case "directml":
		layouts = directml.NativeLayouts()
	default:
		fmt.Fprintf(os.Stderr, "unknown package %q\n", c.pkg)
		return subcommands.ExitUsageError
	}

	if err := printLayouts(c.out, layouts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func printLayouts(w io.Writer, layouts []mem.Layout) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, l := range layouts {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s\tsize %d\talign %d\t\n", l.Name, l.Size, l.Align)
		for _, fld := range l.Fields {
			fmt.Fprintf(tw, "  +%d\t%s\t%s (%d)\t\n", fld.Offset, fld.Name, fld.Type, fld.Size)
		}
	}
	return tw.Flush()
}
