package graph

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-studio/effects/modulation"
	"github.com/cwbudde/algo-studio/effects/pitch"
	"github.com/cwbudde/algo-studio/effects/spatial"
)

// chorusRuntime handles the "chorus" node kind. The right channel's LFO
// runs a quarter cycle ahead to spread the voices across the image.
type chorusRuntime struct {
	left  *modulation.Chorus
	right *modulation.Chorus
}

func (r *chorusRuntime) Configure(_ Context, p Params) error {
	rate := clamp(p.GetNum("rate", 1.5), 0.01, 10)
	depth := clamp(p.GetNum("depth", 0.5), 0, 1)
	feedback := clamp(p.GetNum("feedback", 0.2), 0, 0.9)
	wet := clamp(p.GetNum("wet", 0.5), 0, 1)

	for _, c := range []*modulation.Chorus{r.left, r.right} {
		if err := c.SetRateHz(rate); err != nil {
			return fmt.Errorf("graph: set chorus rate: %w", err)
		}

		if err := c.SetDepth(depth); err != nil {
			return fmt.Errorf("graph: set chorus depth: %w", err)
		}

		if err := c.SetFeedback(feedback); err != nil {
			return fmt.Errorf("graph: set chorus feedback: %w", err)
		}

		if err := c.SetWet(wet); err != nil {
			return fmt.Errorf("graph: set chorus wet: %w", err)
		}
	}

	return nil
}

func (r *chorusRuntime) Process(left, right []float64) {
	r.left.ProcessInPlace(left)
	r.right.ProcessInPlace(right)
}

// widenerRuntime handles the "widener" node kind.
type widenerRuntime struct {
	fx *spatial.StereoWidener
}

func (r *widenerRuntime) Configure(_ Context, p Params) error {
	width := clamp(p.GetNum("width", 0.5), 0, 1)

	err := r.fx.SetWidth(width)
	if err != nil {
		return fmt.Errorf("graph: set widener width: %w", err)
	}

	return nil
}

func (r *widenerRuntime) Process(left, right []float64) {
	_ = r.fx.ProcessStereoInPlace(left, right)
}

// pannerRuntime handles the "panner" node kind.
type pannerRuntime struct {
	fx *spatial.Panner
}

func (r *pannerRuntime) Configure(_ Context, p Params) error {
	pan := clamp(p.GetNum("pan", 0), -1, 1)

	err := r.fx.SetPan(pan)
	if err != nil {
		return fmt.Errorf("graph: set panner pan: %w", err)
	}

	return nil
}

func (r *pannerRuntime) Process(left, right []float64) {
	_ = r.fx.ProcessStereoInPlace(left, right)
}

// pitchRuntime handles the "pitch-shift" node kind.
type pitchRuntime struct {
	left  *pitch.Shifter
	right *pitch.Shifter
}

func (r *pitchRuntime) Configure(_ Context, p Params) error {
	semitones := clamp(p.GetNum("semitones", 0), -12, 12)
	window := clamp(p.GetNum("windowSec", 0.1), 0.01, 0.5)

	for _, s := range []*pitch.Shifter{r.left, r.right} {
		if err := s.SetSemitones(semitones); err != nil {
			return fmt.Errorf("graph: set pitch semitones: %w", err)
		}

		if err := s.SetWindowSeconds(window); err != nil {
			return fmt.Errorf("graph: set pitch window: %w", err)
		}
	}

	return nil
}

func (r *pitchRuntime) Process(left, right []float64) {
	r.left.ProcessInPlace(left)
	r.right.ProcessInPlace(right)
}

func newChorusPair(ctx Context) (*modulation.Chorus, *modulation.Chorus, error) {
	left, err := modulation.NewChorus(ctx.SampleRate)
	if err != nil {
		return nil, nil, err
	}

	right, err := modulation.NewChorus(ctx.SampleRate)
	if err != nil {
		return nil, nil, err
	}

	left.SetPhase(0)
	right.SetPhase(math.Pi / 2)

	return left, right, nil
}
