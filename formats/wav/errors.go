package wav

import "errors"

var (
	// ErrNotWavFile is returned when the input is not a RIFF WAVE file.
	ErrNotWavFile = errors.New("wav: not a wav file")

	// ErrEncode is returned when a buffer cannot be serialised.
	ErrEncode = errors.New("wav: encode error")
)
