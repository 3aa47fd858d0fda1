package wav

import (
	"fmt"
	"io"
	"math"

	gowav "github.com/go-audio/wav"

	"github.com/cwbudde/algo-studio/buffer"
)

// Decode reads a RIFF WAVE stream into a buffer. Any PCM bit depth the
// underlying reader supports is normalised to floats in [-1, 1].
func Decode(r io.ReadSeeker) (*buffer.Buffer, error) {
	dec := gowav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav: read pcm: %w", err)
	}

	if pcm.Format == nil || pcm.Format.NumChannels <= 0 || pcm.Format.SampleRate <= 0 {
		return nil, ErrNotWavFile
	}

	bits := pcm.SourceBitDepth
	if bits <= 0 {
		bits = 16
	}

	// The scale mirrors the encoder's asymmetric quantisation, so a
	// decode/encode round trip of 16-bit data is byte-exact.
	negScale := 1.0 / math.Pow(2, float64(bits-1))
	posScale := 1.0 / (math.Pow(2, float64(bits-1)) - 1)

	samples := make([]float64, len(pcm.Data))

	for i, v := range pcm.Data {
		if v < 0 {
			samples[i] = float64(v) * negScale
		} else {
			samples[i] = float64(v) * posScale
		}
	}

	buf, err := buffer.FromInterleaved(samples, pcm.Format.NumChannels, float64(pcm.Format.SampleRate))
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	return buf, nil
}
