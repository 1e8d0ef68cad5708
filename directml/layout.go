package directml

import "github.com/gogpu/dxinterop/mem"

func nativeLayout[T any](name string) mem.Layout {
	l := mem.Describe[T]()
	l.Name = name
	return l
}

// NativeLayouts describes the native structs Marshal writes.
func NativeLayouts() []mem.Layout {
	return []mem.Layout{
		nativeLayout[nativeOperatorDesc]("DML_OPERATOR_DESC"),
		nativeLayout[nativeTensorDesc]("DML_TENSOR_DESC"),
		nativeLayout[nativeBufferTensorDesc]("DML_BUFFER_TENSOR_DESC"),
		nativeLayout[ScaleBias]("DML_SCALE_BIAS"),
		nativeLayout[nativeElementWiseIdentityDesc]("DML_ELEMENT_WISE_IDENTITY_OPERATOR_DESC"),
		nativeLayout[activationPrefix]("DML_ACTIVATION_RELU_OPERATOR_DESC"),
		nativeLayout[nativeActivationAlphaDesc]("DML_ACTIVATION_LEAKY_RELU_OPERATOR_DESC"),
		nativeLayout[nativeActivationLinearDesc]("DML_ACTIVATION_LINEAR_OPERATOR_DESC"),
		nativeLayout[nativeMeanVarianceNormalizationDesc]("DML_MEAN_VARIANCE_NORMALIZATION_OPERATOR_DESC"),
	}
}
