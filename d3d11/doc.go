// Package d3d11 mirrors the Direct3D 11 pipeline state descriptors.
//
// Every descriptor here has the exact size and field layout of its native
// counterpart (D3D11_BLEND_DESC, D3D11_RASTERIZER_DESC,
// D3D11_DEPTH_STENCIL_DESC) so a value, or a [mem.Buffer] holding one, can be
// handed to native code unchanged. Enumeration values equal the native ones.
//
// Beyond layout, the package provides the usual presets, value equality that
// follows native comparison rules (BOOL fields compare by truth value),
// stable hashing for use as cache keys, and conversion to the WebGPU state
// types of github.com/gogpu/gputypes.
//
//	desc := d3d11.BlendAlpha()
//	targets, err := desc.ColorTargets(gputypes.TextureFormatBGRA8Unorm)
package d3d11
