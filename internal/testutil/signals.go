// Package testutil provides deterministic signal generators and
// comparison helpers shared by the package tests.
package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-studio/buffer"
)

// Sine generates a deterministic sine wave.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// StereoSine builds a two-channel buffer carrying the same sine on
// both channels.
func StereoSine(freqHz, sampleRate, amplitude float64, frames int) *buffer.Buffer {
	tone := Sine(freqHz, sampleRate, amplitude, frames)

	second := make([]float64, frames)
	copy(second, tone)

	buf, err := buffer.FromPlanes([][]float64{tone, second}, sampleRate)
	if err != nil {
		panic(err)
	}

	return buf
}

// Noise generates white noise with a fixed seed for reproducibility.
func Noise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))

	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}

	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}

	return out
}
