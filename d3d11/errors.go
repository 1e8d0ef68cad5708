package d3d11

import "errors"

var (
	// ErrUnsupported is returned when a native value has no gputypes equivalent.
	ErrUnsupported = errors.New("d3d11: value has no gputypes equivalent")

	// ErrInvalidDescription is returned by Validate for out-of-range fields.
	ErrInvalidDescription = errors.New("d3d11: invalid description")
)
