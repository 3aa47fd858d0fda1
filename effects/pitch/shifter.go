package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-studio/dsp/delay"
)

const (
	defaultShifterWindowSec = 0.1

	minShifterSemitones = -12.0
	maxShifterSemitones = 12.0
	minShifterWindowSec = 0.01
	maxShifterWindowSec = 0.5

	shifterIdentityEps = 1e-9
)

// Shifter performs time-domain pitch shifting with two windowed grains
// swept through a delay line. The shift is expressed in semitones:
// +12 is one octave up, -12 one octave down, 0 passes the input through.
//
// This processor is mono and per-sample.
type Shifter struct {
	sampleRate float64
	semitones  float64
	windowSec  float64

	grainLen float64
	phase    float64

	line *delay.Line
}

// NewShifter constructs a granular pitch shifter at the given sample rate.
func NewShifter(sampleRate float64) (*Shifter, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("pitch shifter sample rate must be positive and finite: %f", sampleRate)
	}

	s := &Shifter{
		sampleRate: sampleRate,
		windowSec:  defaultShifterWindowSec,
	}

	size := int(math.Ceil(maxShifterWindowSec*sampleRate)) + 8

	line, err := delay.New(size)
	if err != nil {
		return nil, fmt.Errorf("pitch shifter delay line: %w", err)
	}

	s.line = line
	s.grainLen = s.windowSec * sampleRate

	return s, nil
}

// SampleRate returns the sample rate in Hz.
func (s *Shifter) SampleRate() float64 { return s.sampleRate }

// Semitones returns the current pitch shift in semitones.
func (s *Shifter) Semitones() float64 { return s.semitones }

// WindowSeconds returns the grain window length in seconds.
func (s *Shifter) WindowSeconds() float64 { return s.windowSec }

// Ratio returns the playback-rate ratio implied by the semitone setting.
func (s *Shifter) Ratio() float64 { return math.Pow(2, s.semitones/12.0) }

// SetSemitones updates the pitch shift in [-12, 12] semitones.
func (s *Shifter) SetSemitones(semitones float64) error {
	if semitones < minShifterSemitones || semitones > maxShifterSemitones ||
		math.IsNaN(semitones) || math.IsInf(semitones, 0) {
		return fmt.Errorf("pitch shifter semitones must be in [%g, %g]: %f",
			minShifterSemitones, maxShifterSemitones, semitones)
	}

	s.semitones = semitones

	return nil
}

// SetWindowSeconds updates the grain window length in [0.01, 0.5] seconds.
func (s *Shifter) SetWindowSeconds(windowSec float64) error {
	if windowSec < minShifterWindowSec || windowSec > maxShifterWindowSec ||
		math.IsNaN(windowSec) || math.IsInf(windowSec, 0) {
		return fmt.Errorf("pitch shifter window must be in [%g, %g] s: %f",
			minShifterWindowSec, maxShifterWindowSec, windowSec)
	}

	s.windowSec = windowSec
	s.grainLen = windowSec * s.sampleRate

	return nil
}

// Reset clears the delay line and grain phase.
func (s *Shifter) Reset() {
	s.line.Reset()
	s.phase = 0
}

// ProcessSample processes one sample.
func (s *Shifter) ProcessSample(input float64) float64 {
	s.line.Write(input)

	if math.Abs(s.semitones) <= shifterIdentityEps {
		return input
	}

	// Sweep the tap phase so the read head moves at the pitch ratio
	// relative to the write head. Pitch up shortens the delay over time,
	// pitch down lengthens it; the wrap restarts the grain.
	ratio := s.Ratio()
	s.phase += (1 - ratio) / s.grainLen
	s.phase -= math.Floor(s.phase)

	frac1 := s.phase
	frac2 := frac1 + 0.5
	frac2 -= math.Floor(frac2)

	gain1 := math.Sin(math.Pi * frac1)
	gain2 := math.Sin(math.Pi * frac2)

	tap1 := s.line.ReadFractional(1 + frac1*s.grainLen)
	tap2 := s.line.ReadFractional(1 + frac2*s.grainLen)

	return tap1*gain1 + tap2*gain2
}

// ProcessInPlace applies pitch shifting to buf in place.
func (s *Shifter) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = s.ProcessSample(buf[i])
	}
}
