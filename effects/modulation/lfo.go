package modulation

import "math"

// LFO is a sinusoidal low-frequency oscillator with an externally seedable
// phase, shared by the chorus and LFO-driven parameter automation.
type LFO struct {
	sampleRate float64
	rateHz     float64
	phase      float64
}

// NewLFO returns an oscillator at the given rate.
func NewLFO(sampleRate, rateHz float64) *LFO {
	return &LFO{sampleRate: sampleRate, rateHz: rateHz}
}

// SetRateHz updates the oscillation rate.
func (l *LFO) SetRateHz(rateHz float64) {
	if rateHz > 0 && !math.IsNaN(rateHz) && !math.IsInf(rateHz, 0) {
		l.rateHz = rateHz
	}
}

// SetPhase seeds the phase in radians. Offline rendering uses this to make
// modulation deterministic.
func (l *LFO) SetPhase(phase float64) {
	l.phase = math.Mod(phase, 2*math.Pi)
	if l.phase < 0 {
		l.phase += 2 * math.Pi
	}
}

// Phase returns the current phase in radians.
func (l *LFO) Phase() float64 { return l.phase }

// Next returns sin(phase) and advances one sample.
func (l *LFO) Next() float64 {
	v := math.Sin(l.phase)

	l.phase += 2 * math.Pi * l.rateHz / l.sampleRate
	if l.phase >= 2*math.Pi {
		l.phase -= 2 * math.Pi
	}

	return v
}

// NextOffset is like Next but evaluates at a fixed phase offset, used for
// multi-voice modulation from a single oscillator.
func (l *LFO) NextOffset(offset float64) float64 {
	return math.Sin(l.phase + offset)
}

// Reset zeroes the phase.
func (l *LFO) Reset() {
	l.phase = 0
}
