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
)

type preset struct {
	kind    string
	name    string
	hash    uint64
	summary string
}

func blendPreset(name string, d d3d11.BlendDescription) preset {
	rt := d.RenderTarget[0]
	return preset{
		kind: "blend",
		name: name,
		hash: d.Hash(),
		summary: fmt.Sprintf("enable=%v color=%v,%v,%v alpha=%v,%v,%v mask=%v",
			rt.BlendEnable, rt.SourceBlend, rt.DestinationBlend, rt.BlendOperation,
			rt.SourceBlendAlpha, rt.DestinationBlendAlpha, rt.BlendOperationAlpha, rt.RenderTargetWriteMask),
	}
}

func rasterizerPreset(name string, d d3d11.RasterizerDescription) preset {
	return preset{
		kind:    "rasterizer",
		name:    name,
		hash:    d.Hash(),
		summary: fmt.Sprintf("fill=%v cull=%v depthclip=%v", d.FillMode, d.CullMode, d.DepthClipEnable),
	}
}

func depthStencilPreset(name string, d d3d11.DepthStencilDescription) preset {
	return preset{
		kind: "depth-stencil",
		name: name,
		hash: d.Hash(),
		summary: fmt.Sprintf("enable=%v write=%d func=%v stencil=%v",
			d.DepthEnable, d.DepthWriteMask, d.DepthFunc, d.StencilEnable),
	}
}

func presets() []preset {
	return []preset{
		blendPreset("Opaque", d3d11.BlendOpaque()),
		blendPreset("Alpha", d3d11.BlendAlpha()),
		blendPreset("Additive", d3d11.BlendAdditive()),
		blendPreset("NonPremultiplied", d3d11.BlendNonPremultiplied()),
		rasterizerPreset("CullNone", d3d11.RasterizerCullNone()),
		rasterizerPreset("CullFront", d3d11.RasterizerCullFront()),
		rasterizerPreset("CullBack", d3d11.RasterizerCullBack()),
		rasterizerPreset("Wireframe", d3d11.RasterizerWireframe()),
		depthStencilPreset("None", d3d11.DepthStencilNone()),
		depthStencilPreset("Default", d3d11.DepthStencilDefault()),
		depthStencilPreset("Read", d3d11.DepthStencilRead()),
		depthStencilPreset("ReverseZ", d3d11.DepthStencilReverseZ()),
		depthStencilPreset("ReadReverseZ", d3d11.DepthStencilReadReverseZ()),
	}
}

// presetsCmd implements subcommands.Command for the "presets" command.
type presetsCmd struct {
	out io.Writer
}

// Name implements subcommands.Command.
func (*presetsCmd) Name() string { return "presets" }

// Synopsis implements subcommands.Command.
func (*presetsCmd) Synopsis() string { return "print the d3d11 state presets and their hashes" }

// Usage implements subcommands.Command.
func (*presetsCmd) Usage() string { return "presets\n" }

// SetFlags implements subcommands.Command.
func (*presetsCmd) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.
func (c *presetsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for _, p := range presets() {
		fmt.Fprintf(tw, "%s\t%s\t%016x\t%s\n", p.kind, p.name, p.hash, p.summary)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
