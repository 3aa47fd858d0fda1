package formats

import "errors"

var (
	// ErrEmptyInput is returned when the input holds zero bytes.
	ErrEmptyInput = errors.New("formats: empty input")

	// ErrSizeLimit is returned when the input exceeds the configured
	// maximum before any decode is attempted.
	ErrSizeLimit = errors.New("formats: input exceeds size limit")

	// ErrDecode is returned for unsupported containers and for codec
	// failures inside a recognised container.
	ErrDecode = errors.New("formats: decode error")
)
