package graph

import (
	"fmt"
	"math"
)

// WetMixer blends the processed (wet) chain output against the
// unprocessed (dry) signal and implements bypass. The wet and dry gains
// always sum to one, and both the wet amount and the bypass toggle move
// through a short crossfade so transitions stay click-free.
type WetMixer struct {
	wet    float64
	bypass bool

	gain *Smoother
}

// NewWetMixer creates a fully wet mixer with the standard crossfade
// time constant.
func NewWetMixer(sampleRate float64) (*WetMixer, error) {
	gain, err := NewSmoother(sampleRate, CrossfadeTau)
	if err != nil {
		return nil, fmt.Errorf("wet mixer: %w", err)
	}

	m := &WetMixer{wet: 1, gain: gain}
	m.gain.Snap(1)

	return m, nil
}

// Wet returns the configured wet amount.
func (m *WetMixer) Wet() float64 { return m.wet }

// Bypassed reports whether the mixer is bypassing the wet path.
func (m *WetMixer) Bypassed() bool { return m.bypass }

// SetWet sets the wet amount in [0, 1]. The change crossfades in.
func (m *WetMixer) SetWet(wet float64) error {
	if wet < 0 || wet > 1 || math.IsNaN(wet) || math.IsInf(wet, 0) {
		return fmt.Errorf("wet mixer amount must be in [0, 1]: %f", wet)
	}

	m.wet = wet
	m.updateTarget()

	return nil
}

// SetBypassed toggles bypass. Engaging bypass fades the wet path out;
// disengaging fades it back to the configured wet amount.
func (m *WetMixer) SetBypassed(bypass bool) {
	m.bypass = bypass
	m.updateTarget()
}

// Snap jumps the crossfade to its target immediately. Offline renders
// use this when establishing initial state.
func (m *WetMixer) Snap() {
	m.gain.Snap(m.gain.Target())
}

func (m *WetMixer) updateTarget() {
	if m.bypass {
		m.gain.SetTarget(0)
		return
	}

	m.gain.SetTarget(m.wet)
}

// ProcessStereo mixes paired dry and wet blocks in place into the dry
// buffers. All four buffers must have the same length.
func (m *WetMixer) ProcessStereo(dryL, dryR, wetL, wetR []float64) error {
	if len(dryL) != len(dryR) || len(dryL) != len(wetL) || len(dryL) != len(wetR) {
		return fmt.Errorf("wet mixer: buffers must have equal length: %d %d %d %d",
			len(dryL), len(dryR), len(wetL), len(wetR))
	}

	for i := range dryL {
		g := m.gain.Next()
		dry := 1 - g

		dryL[i] = dryL[i]*dry + wetL[i]*g
		dryR[i] = dryR[i]*dry + wetR[i]*g
	}

	return nil
}
