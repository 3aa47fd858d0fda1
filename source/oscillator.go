package source

import (
	"fmt"
	"math"
)

// Waveform selects the oscillator shape.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Saw
	Triangle
)

// ParseWaveform maps a waveform name to its enumerant.
func ParseWaveform(name string) (Waveform, error) {
	switch name {
	case "sine":
		return Sine, nil
	case "square":
		return Square, nil
	case "saw", "sawtooth":
		return Saw, nil
	case "triangle":
		return Triangle, nil
	default:
		return 0, fmt.Errorf("source: unsupported waveform: %s", name)
	}
}

// String returns the waveform name.
func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Square:
		return "square"
	case Saw:
		return "saw"
	case Triangle:
		return "triangle"
	default:
		return "unknown"
	}
}

const (
	minOscillatorFreq = 20.0
	maxOscillatorFreq = 20000.0
)

// Oscillator is a continuous periodic source.
type Oscillator struct {
	sampleRate float64
	waveform   Waveform
	frequency  float64
	phase      float64 // cycles, [0, 1)
}

// NewOscillator creates a 440 Hz sine oscillator.
func NewOscillator(sampleRate float64) (*Oscillator, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("oscillator sample rate must be > 0 and finite: %f", sampleRate)
	}

	return &Oscillator{
		sampleRate: sampleRate,
		waveform:   Sine,
		frequency:  440,
	}, nil
}

// Waveform returns the current shape.
func (o *Oscillator) Waveform() Waveform { return o.waveform }

// Frequency returns the frequency in Hz.
func (o *Oscillator) Frequency() float64 { return o.frequency }

// SetWaveform changes the oscillator shape.
func (o *Oscillator) SetWaveform(w Waveform) {
	o.waveform = w
}

// SetFrequency sets the frequency in [20, 20000] Hz.
func (o *Oscillator) SetFrequency(freq float64) error {
	if freq < minOscillatorFreq || freq > maxOscillatorFreq ||
		math.IsNaN(freq) || math.IsInf(freq, 0) {
		return fmt.Errorf("oscillator frequency must be in [%g, %g]: %f",
			minOscillatorFreq, maxOscillatorFreq, freq)
	}

	o.frequency = freq

	return nil
}

// Reset rewinds the phase to the cycle start.
func (o *Oscillator) Reset() {
	o.phase = 0
}

// NextSample produces one sample and advances the phase.
func (o *Oscillator) NextSample() float64 {
	var out float64

	switch o.waveform {
	case Sine:
		out = math.Sin(2 * math.Pi * o.phase)
	case Square:
		if o.phase < 0.5 {
			out = 1
		} else {
			out = -1
		}
	case Saw:
		out = 2*o.phase - 1
	case Triangle:
		if o.phase < 0.5 {
			out = 4*o.phase - 1
		} else {
			out = 3 - 4*o.phase
		}
	}

	o.phase += o.frequency / o.sampleRate
	o.phase -= math.Floor(o.phase)

	return out
}

// ProcessBlock fills buf with consecutive samples.
func (o *Oscillator) ProcessBlock(buf []float64) {
	for i := range buf {
		buf[i] = o.NextSample()
	}
}
