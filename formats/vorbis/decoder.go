package vorbis

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/cwbudde/algo-studio/buffer"
)

// Decode reads an entire Ogg Vorbis stream and returns its samples.
func Decode(r io.Reader) (*buffer.Buffer, error) {
	samples, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("vorbis: read stream: %w", err)
	}

	if format.Channels <= 0 || format.SampleRate <= 0 {
		return nil, fmt.Errorf("vorbis: invalid format %d ch / %d Hz", format.Channels, format.SampleRate)
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("vorbis: stream contains no samples")
	}

	interleaved := make([]float64, len(samples))
	for i, s := range samples {
		interleaved[i] = float64(s)
	}

	buf, err := buffer.FromInterleaved(interleaved, format.Channels, float64(format.SampleRate))
	if err != nil {
		return nil, fmt.Errorf("vorbis: %w", err)
	}

	return buf, nil
}
