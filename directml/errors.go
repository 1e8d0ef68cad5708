package directml

import "errors"

var (
	// ErrNilDescription is returned when Marshal is given a nil description.
	ErrNilDescription = errors.New("directml: nil operator description")

	// ErrInvalidTensor is returned for tensor descriptions the runtime would reject.
	ErrInvalidTensor = errors.New("directml: invalid tensor description")

	// ErrUnsupportedOperator is returned for operator or tensor types this
	// package cannot marshal, fuse or read back.
	ErrUnsupportedOperator = errors.New("directml: unsupported operator")
)
