// Package directml describes DirectML operators and marshals them into the
// native DML_OPERATOR_DESC graphs the runtime consumes.
//
// Descriptions are plain Go values. [Marshal] turns one into a graph of
// unmanaged allocations (operator desc, type-specific desc, tensor descs,
// size and stride arrays) and returns a [NativeOperator] handle that owns
// the whole graph until Free is called. [Unmarshal] reads a native graph
// back into Go values.
//
//	op := directml.MeanVarianceNormalization{
//	    InputTensor:       directml.NewTensorDescription(directml.TensorDataTypeFloat32, 1, 3, 224, 224),
//	    OutputTensor:      directml.NewTensorDescription(directml.TensorDataTypeFloat32, 1, 3, 224, 224),
//	    NormalizeVariance: true,
//	    Epsilon:           1e-5,
//	    FusedActivation:   directml.ActivationRelu{},
//	}
//	native, err := directml.Marshal(op)
//	if err != nil {
//	    return err
//	}
//	defer native.Free()
package directml
