// Package dxinterop marshals Direct3D 11 state descriptions and DirectML
// operator descriptions into the exact native layouts the Windows runtimes
// read, using explicitly managed unmanaged memory.
//
// # Packages
//
//   - [github.com/gogpu/dxinterop/mem]: unmanaged allocation, typed copies
//     between Go values and raw memory, a pluggable mem.Allocator and a
//     leak-detecting mem.Tracking allocator.
//   - [github.com/gogpu/dxinterop/d3d11]: D3D11_BLEND_DESC,
//     D3D11_RASTERIZER_DESC and D3D11_DEPTH_STENCIL_DESC with presets,
//     validation, hashing, a state cache and conversion to gputypes.
//   - [github.com/gogpu/dxinterop/directml]: DML_OPERATOR_DESC graphs for
//     mean-variance normalization, element-wise identity and the
//     activations, built and released as one unit.
//
// # Ownership
//
// Every allocation is owned by exactly one handle (mem.Buffer,
// directml.NativeOperator) or by the caller of mem.Alloc, and must be
// released exactly once. Nothing is reclaimed by the garbage collector.
//
//	op, err := directml.Marshal(directml.MeanVarianceNormalization{...})
//	if err != nil {
//	    return err
//	}
//	defer op.Free()
//	compile(op.Pointer())
//
// # Logging
//
// The packages log through [log/slog]. Nothing is logged until [SetLogger]
// installs a logger.
package dxinterop
