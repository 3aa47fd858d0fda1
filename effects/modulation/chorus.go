package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-studio/dsp/delay"
)

const (
	defaultChorusRateHz   = 1.5
	defaultChorusDepth    = 0.5
	defaultChorusFeedback = 0.2
	defaultChorusWet      = 0.5

	chorusBaseDelaySeconds = 0.020
	chorusDepthSpanSeconds = 0.008

	maxChorusRateHz   = 10.0
	maxChorusFeedback = 0.9
)

// Chorus is an LFO-modulated short delay with feedback and a wet mix.
type Chorus struct {
	sampleRate float64
	depth      float64
	feedback   float64
	wet        float64

	lfo  *LFO
	line *delay.Line
}

// NewChorus creates a chorus at the given sample rate.
func NewChorus(sampleRate float64) (*Chorus, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("chorus sample rate must be > 0 and finite: %f", sampleRate)
	}

	maxDelay := chorusBaseDelaySeconds + chorusDepthSpanSeconds
	size := int(math.Ceil(maxDelay*sampleRate)) + 4

	line, err := delay.New(size)
	if err != nil {
		return nil, fmt.Errorf("chorus delay line: %w", err)
	}

	return &Chorus{
		sampleRate: sampleRate,
		depth:      defaultChorusDepth,
		feedback:   defaultChorusFeedback,
		wet:        defaultChorusWet,
		lfo:        NewLFO(sampleRate, defaultChorusRateHz),
		line:       line,
	}, nil
}

// SetRateHz sets the modulation rate in (0, 10] Hz.
func (c *Chorus) SetRateHz(rateHz float64) error {
	if rateHz <= 0 || rateHz > maxChorusRateHz || math.IsNaN(rateHz) || math.IsInf(rateHz, 0) {
		return fmt.Errorf("chorus rate must be in (0, %g]: %f", maxChorusRateHz, rateHz)
	}
	c.lfo.SetRateHz(rateHz)
	return nil
}

// SetDepth sets the modulation depth in [0, 1].
func (c *Chorus) SetDepth(depth float64) error {
	if depth < 0 || depth > 1 || math.IsNaN(depth) || math.IsInf(depth, 0) {
		return fmt.Errorf("chorus depth must be in [0, 1]: %f", depth)
	}
	c.depth = depth
	return nil
}

// SetFeedback sets the feedback amount in [0, 0.9].
func (c *Chorus) SetFeedback(feedback float64) error {
	if feedback < 0 || feedback > maxChorusFeedback || math.IsNaN(feedback) || math.IsInf(feedback, 0) {
		return fmt.Errorf("chorus feedback must be in [0, %g]: %f", maxChorusFeedback, feedback)
	}
	c.feedback = feedback
	return nil
}

// SetWet sets the wet amount in [0, 1].
func (c *Chorus) SetWet(wet float64) error {
	if wet < 0 || wet > 1 || math.IsNaN(wet) || math.IsInf(wet, 0) {
		return fmt.Errorf("chorus wet must be in [0, 1]: %f", wet)
	}
	c.wet = wet
	return nil
}

// SetPhase seeds the LFO phase in radians for deterministic rendering.
func (c *Chorus) SetPhase(phase float64) {
	c.lfo.SetPhase(phase)
}

// Depth returns the modulation depth.
func (c *Chorus) Depth() float64 { return c.depth }

// Feedback returns the feedback amount.
func (c *Chorus) Feedback() float64 { return c.feedback }

// Wet returns the wet amount.
func (c *Chorus) Wet() float64 { return c.wet }

// Reset clears the delay line and modulation phase.
func (c *Chorus) Reset() {
	c.line.Reset()
	c.lfo.Reset()
}

// ProcessSample processes one sample.
func (c *Chorus) ProcessSample(input float64) float64 {
	base := chorusBaseDelaySeconds * c.sampleRate
	span := chorusDepthSpanSeconds * c.sampleRate * c.depth

	mod := 0.5 * (1 + c.lfo.Next()) // 0..1
	wetSample := c.line.ReadFractional(base + span*mod)

	c.line.Write(input + wetSample*c.feedback)

	return input*(1-c.wet) + wetSample*c.wet
}

// ProcessInPlace applies the chorus to buf in place.
func (c *Chorus) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = c.ProcessSample(buf[i])
	}
}
