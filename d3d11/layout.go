package d3d11

import "github.com/gogpu/dxinterop/mem"

func nativeLayout[T any](name string) mem.Layout {
	l := mem.Describe[T]()
	l.Name = name
	return l
}

// NativeLayouts describes the state structs exactly as the runtime reads
// them.
func NativeLayouts() []mem.Layout {
	return []mem.Layout{
		nativeLayout[RenderTargetBlendDescription]("D3D11_RENDER_TARGET_BLEND_DESC"),
		nativeLayout[BlendDescription]("D3D11_BLEND_DESC"),
		nativeLayout[RasterizerDescription]("D3D11_RASTERIZER_DESC"),
		nativeLayout[DepthStencilOperationDescription]("D3D11_DEPTH_STENCILOP_DESC"),
		nativeLayout[DepthStencilDescription]("D3D11_DEPTH_STENCIL_DESC"),
	}
}
