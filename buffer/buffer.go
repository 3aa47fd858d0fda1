package buffer

import (
	"fmt"
	"math"
)

// Buffer holds decoded audio as one float64 plane per channel.
// All planes have equal length. Buffers handed to the graph runtime or the
// offline renderer are treated as immutable.
type Buffer struct {
	sampleRate float64
	planes     [][]float64
}

// New returns a zero-filled buffer with the given geometry.
func New(channels, frames int, sampleRate float64) (*Buffer, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("buffer: channel count must be > 0: %d", channels)
	}
	if frames < 0 {
		return nil, fmt.Errorf("buffer: frame count must be >= 0: %d", frames)
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("buffer: sample rate must be > 0 and finite: %f", sampleRate)
	}

	planes := make([][]float64, channels)
	for ch := range planes {
		planes[ch] = make([]float64, frames)
	}

	return &Buffer{sampleRate: sampleRate, planes: planes}, nil
}

// FromPlanes wraps existing channel planes without copying.
// All planes must have the same length.
func FromPlanes(planes [][]float64, sampleRate float64) (*Buffer, error) {
	if len(planes) == 0 {
		return nil, fmt.Errorf("buffer: need at least one channel plane")
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("buffer: sample rate must be > 0 and finite: %f", sampleRate)
	}

	frames := len(planes[0])
	for ch, p := range planes {
		if len(p) != frames {
			return nil, fmt.Errorf("buffer: plane %d has %d frames, want %d", ch, len(p), frames)
		}
	}

	return &Buffer{sampleRate: sampleRate, planes: planes}, nil
}

// FromInterleaved de-interleaves samples into a new buffer.
// len(samples) must be a multiple of channels.
func FromInterleaved(samples []float64, channels int, sampleRate float64) (*Buffer, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("buffer: channel count must be > 0: %d", channels)
	}
	if len(samples)%channels != 0 {
		return nil, fmt.Errorf("buffer: %d samples not divisible by %d channels", len(samples), channels)
	}

	frames := len(samples) / channels

	b, err := New(channels, frames, sampleRate)
	if err != nil {
		return nil, err
	}

	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			b.planes[ch][i] = samples[i*channels+ch]
		}
	}

	return b, nil
}

// SampleRate returns the sample rate in Hz.
func (b *Buffer) SampleRate() float64 { return b.sampleRate }

// Channels returns the channel count.
func (b *Buffer) Channels() int { return len(b.planes) }

// Frames returns the length in frames.
func (b *Buffer) Frames() int {
	if len(b.planes) == 0 {
		return 0
	}
	return len(b.planes[0])
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	return float64(b.Frames()) / b.sampleRate
}

// Channel returns the plane for channel ch. The slice is shared, not copied.
func (b *Buffer) Channel(ch int) []float64 {
	return b.planes[ch]
}

// Interleaved flattens the planes into a freshly allocated
// frame-interleaved slice.
func (b *Buffer) Interleaved() []float64 {
	channels := b.Channels()
	frames := b.Frames()
	out := make([]float64, channels*frames)

	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			out[i*channels+ch] = b.planes[ch][i]
		}
	}

	return out
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	planes := make([][]float64, len(b.planes))
	for ch, p := range b.planes {
		planes[ch] = make([]float64, len(p))
		copy(planes[ch], p)
	}

	return &Buffer{sampleRate: b.sampleRate, planes: planes}
}
