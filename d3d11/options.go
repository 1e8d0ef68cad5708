package d3d11

// BlendOption configures a BlendDescription built by NewBlendDescription.
//
// Example:
//
//	// Premultiplied color, but keep destination alpha.
//	desc := d3d11.NewBlendDescription(d3d11.BlendOne, d3d11.BlendInverseSourceAlpha,
//	    d3d11.WithAlphaBlend(d3d11.BlendZero, d3d11.BlendOne))
type BlendOption func(*blendOptions)

// blendOptions holds the per-target state applied to every render target.
type blendOptions struct {
	srcAlpha        Blend
	dstAlpha        Blend
	op              BlendOperation
	opAlpha         BlendOperation
	writeMask       ColorWriteEnable
	alphaToCoverage bool
}

// defaultBlendOptions reuses the color factors for alpha, adds, and writes
// every channel.
func defaultBlendOptions(src, dst Blend) blendOptions {
	return blendOptions{
		srcAlpha:  src,
		dstAlpha:  dst,
		op:        BlendOperationAdd,
		opAlpha:   BlendOperationAdd,
		writeMask: ColorWriteEnableAll,
	}
}

// WithAlphaBlend sets separate alpha blend factors.
func WithAlphaBlend(src, dst Blend) BlendOption {
	return func(o *blendOptions) {
		o.srcAlpha = src
		o.dstAlpha = dst
	}
}

// WithBlendOperation sets the color and alpha blend operations.
func WithBlendOperation(color, alpha BlendOperation) BlendOption {
	return func(o *blendOptions) {
		o.op = color
		o.opAlpha = alpha
	}
}

// WithWriteMask restricts which channels are written.
func WithWriteMask(mask ColorWriteEnable) BlendOption {
	return func(o *blendOptions) {
		o.writeMask = mask
	}
}

// WithAlphaToCoverage enables alpha-to-coverage multisampling.
func WithAlphaToCoverage() BlendOption {
	return func(o *blendOptions) {
		o.alphaToCoverage = true
	}
}
