package dynamics

import (
	"fmt"
	"math"
)

const (
	defaultLimiterCeilingDB   = -0.1
	defaultLimiterReleaseMs   = 100.0
	defaultLimiterLookaheadMs = 3.0

	minLimiterCeilingDB = -24.0
	maxLimiterCeilingDB = 0.0
	minLimiterReleaseMs = 1.0
	maxLimiterReleaseMs = 5000.0
)

// Limiter is a lookahead peak limiter. The program path is delayed by the
// lookahead window and the applied gain is bounded by the minimum gain
// required anywhere in that window, so the ceiling is never exceeded at any
// output sample. Gain recovery after a peak follows the release time.
type Limiter struct {
	sampleRate float64
	ceilingDB  float64
	releaseMs  float64

	ceilingLin   float64
	releaseCoeff float64

	delayBuf []float64
	writePos int

	gainState float64
}

// NewLimiter creates a lookahead limiter with a 3 ms window.
func NewLimiter(sampleRate float64) (*Limiter, error) {
	if sampleRate <= 0 || !isFinite(sampleRate) {
		return nil, fmt.Errorf("limiter sample rate must be > 0 and finite: %f", sampleRate)
	}

	l := &Limiter{
		sampleRate: sampleRate,
		ceilingDB:  defaultLimiterCeilingDB,
		releaseMs:  defaultLimiterReleaseMs,
		gainState:  1,
	}

	window := int(math.Ceil(defaultLimiterLookaheadMs * 0.001 * sampleRate))
	if window < 1 {
		window = 1
	}
	l.delayBuf = make([]float64, window)

	l.updateCoefficients()

	return l, nil
}

// SetCeiling sets the output ceiling in [-24, 0] dBFS.
func (l *Limiter) SetCeiling(dB float64) error {
	if dB < minLimiterCeilingDB || dB > maxLimiterCeilingDB || !isFinite(dB) {
		return fmt.Errorf("limiter ceiling must be in [%g, %g]: %f",
			minLimiterCeilingDB, maxLimiterCeilingDB, dB)
	}
	l.ceilingDB = dB
	l.updateCoefficients()
	return nil
}

// SetRelease sets the gain recovery time in [1, 5000] milliseconds.
func (l *Limiter) SetRelease(ms float64) error {
	if ms < minLimiterReleaseMs || ms > maxLimiterReleaseMs || !isFinite(ms) {
		return fmt.Errorf("limiter release must be in [%g, %g]: %f",
			minLimiterReleaseMs, maxLimiterReleaseMs, ms)
	}
	l.releaseMs = ms
	l.updateCoefficients()
	return nil
}

// Ceiling returns the ceiling in dBFS.
func (l *Limiter) Ceiling() float64 { return l.ceilingDB }

// Release returns the release time in milliseconds.
func (l *Limiter) Release() float64 { return l.releaseMs }

// Latency returns the lookahead delay in samples.
func (l *Limiter) Latency() int { return len(l.delayBuf) }

// Reset clears the delay line and gain state.
func (l *Limiter) Reset() {
	for i := range l.delayBuf {
		l.delayBuf[i] = 0
	}
	l.writePos = 0
	l.gainState = 1
}

// ProcessSample limits one sample, returning the delayed, gain-controlled
// output.
func (l *Limiter) ProcessSample(input float64) float64 {
	out := l.delayBuf[l.writePos]
	l.delayBuf[l.writePos] = input
	l.writePos++
	if l.writePos >= len(l.delayBuf) {
		l.writePos = 0
	}

	// Minimum gain needed anywhere in the lookahead window.
	needed := 1.0
	for _, x := range l.delayBuf {
		if a := math.Abs(x); a > l.ceilingLin {
			if g := l.ceilingLin / a; g < needed {
				needed = g
			}
		}
	}

	// Recover toward unity at the release rate, but never above the
	// window's requirement.
	l.gainState = 1 + (l.gainState-1)*l.releaseCoeff
	if needed < l.gainState {
		l.gainState = needed
	}

	return out * l.gainState
}

// ProcessInPlace limits buf in place.
func (l *Limiter) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = l.ProcessSample(buf[i])
	}
}

func (l *Limiter) updateCoefficients() {
	l.ceilingLin = math.Pow(10, l.ceilingDB/20)
	l.releaseCoeff = math.Exp(-math.Ln2 / (l.releaseMs * 0.001 * l.sampleRate))
}
