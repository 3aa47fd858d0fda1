package graph

import (
	"fmt"
	"math"
)

// DefaultSmoothingTau is the smoothing time constant applied to
// parameter writes unless a node specifies its own.
const DefaultSmoothingTau = 0.010

// CrossfadeTau is the smoothing time constant used by the wet/dry
// mixer for bypass crossfades.
const CrossfadeTau = 0.015

// Smoother tracks a parameter toward its target with a first-order
// exponential: y += (target - y) * (1 - e^(-dt/tau)).
type Smoother struct {
	value  float64
	target float64
	coeff  float64
}

// NewSmoother creates a smoother with the given time constant in
// seconds. A tau of 0 disables smoothing and makes writes immediate.
func NewSmoother(sampleRate, tau float64) (*Smoother, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("smoother sample rate must be > 0 and finite: %f", sampleRate)
	}

	if tau < 0 || math.IsNaN(tau) || math.IsInf(tau, 0) {
		return nil, fmt.Errorf("smoother tau must be >= 0 and finite: %f", tau)
	}

	s := &Smoother{}
	s.setCoeff(sampleRate, tau)

	return s, nil
}

func (s *Smoother) setCoeff(sampleRate, tau float64) {
	// A tau shorter than one sample period degenerates to a snap.
	if tau*sampleRate < 1 {
		s.coeff = 1
		return
	}

	s.coeff = 1 - math.Exp(-1/(tau*sampleRate))
}

// Value returns the current smoothed value.
func (s *Smoother) Value() float64 { return s.value }

// Target returns the value the smoother is approaching.
func (s *Smoother) Target() float64 { return s.target }

// SetTarget sets the value the smoother approaches.
func (s *Smoother) SetTarget(target float64) {
	s.target = target
}

// Snap jumps to the value immediately, skipping the transition.
func (s *Smoother) Snap(value float64) {
	s.value = value
	s.target = value
}

// Next advances one sample and returns the new value.
func (s *Smoother) Next() float64 {
	s.value += (s.target - s.value) * s.coeff
	return s.value
}

// Settled reports whether the value has effectively reached the target.
func (s *Smoother) Settled() bool {
	return math.Abs(s.value-s.target) < 1e-9
}
