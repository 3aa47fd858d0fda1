package effects

import (
	"fmt"
	"math"
)

const (
	defaultTremoloRateHz = 4.0
	defaultTremoloDepth  = 0.6

	maxTremoloRateHz = 20.0
)

// Tremolo applies sinusoidal amplitude modulation:
//
//	y = x * (1 - depth/2 + (depth/2)*sin(phase))
//
// so depth 0 passes through and depth 1 swings the gain across [0, 1].
type Tremolo struct {
	sampleRate float64
	rateHz     float64
	depth      float64

	lfoPhase float64
}

// NewTremolo creates a tremolo with practical defaults.
func NewTremolo(sampleRate float64) (*Tremolo, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("tremolo sample rate must be > 0 and finite: %f", sampleRate)
	}

	return &Tremolo{
		sampleRate: sampleRate,
		rateHz:     defaultTremoloRateHz,
		depth:      defaultTremoloDepth,
	}, nil
}

// SetRateHz sets modulation speed in (0, 20] Hz.
func (t *Tremolo) SetRateHz(rateHz float64) error {
	if rateHz <= 0 || rateHz > maxTremoloRateHz || math.IsNaN(rateHz) || math.IsInf(rateHz, 0) {
		return fmt.Errorf("tremolo rate must be in (0, %g]: %f", maxTremoloRateHz, rateHz)
	}
	t.rateHz = rateHz
	return nil
}

// SetDepth sets modulation depth in [0, 1].
func (t *Tremolo) SetDepth(depth float64) error {
	if depth < 0 || depth > 1 || math.IsNaN(depth) || math.IsInf(depth, 0) {
		return fmt.Errorf("tremolo depth must be in [0, 1]: %f", depth)
	}
	t.depth = depth
	return nil
}

// SetPhase sets the LFO phase in radians. The offline renderer uses this to
// seed modulation deterministically.
func (t *Tremolo) SetPhase(phase float64) {
	t.lfoPhase = math.Mod(phase, 2*math.Pi)
}

// RateHz returns the LFO speed in Hz.
func (t *Tremolo) RateHz() float64 { return t.rateHz }

// Depth returns the modulation depth in [0, 1].
func (t *Tremolo) Depth() float64 { return t.depth }

// Reset clears the modulation phase.
func (t *Tremolo) Reset() {
	t.lfoPhase = 0
}

// ProcessSample processes one sample.
func (t *Tremolo) ProcessSample(x float64) float64 {
	mod := 1 - t.depth/2 + (t.depth/2)*math.Sin(t.lfoPhase)

	t.lfoPhase += 2 * math.Pi * t.rateHz / t.sampleRate
	if t.lfoPhase >= 2*math.Pi {
		t.lfoPhase -= 2 * math.Pi
	}

	return x * mod
}

// ProcessInPlace applies the tremolo to buf in place.
func (t *Tremolo) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = t.ProcessSample(buf[i])
	}
}
