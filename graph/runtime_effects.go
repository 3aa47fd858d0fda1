package graph

import (
	"fmt"

	"github.com/cwbudde/algo-studio/effects"
)

// delayRuntime handles the "delay" node kind.
type delayRuntime struct {
	left  *effects.Delay
	right *effects.Delay
}

func (r *delayRuntime) Configure(_ Context, p Params) error {
	time := clamp(p.GetNum("delayTime", 0.3), 0, 5)
	feedback := clamp(p.GetNum("feedback", 0.3), 0, 0.95)
	wet := clamp(p.GetNum("wet", 0.5), 0, 1)

	for _, d := range []*effects.Delay{r.left, r.right} {
		if err := d.SetTime(time); err != nil {
			return fmt.Errorf("graph: set delay time: %w", err)
		}

		if err := d.SetFeedback(feedback); err != nil {
			return fmt.Errorf("graph: set delay feedback: %w", err)
		}

		if err := d.SetWet(wet); err != nil {
			return fmt.Errorf("graph: set delay wet: %w", err)
		}
	}

	return nil
}

func (r *delayRuntime) Process(left, right []float64) {
	r.left.ProcessInPlace(left)
	r.right.ProcessInPlace(right)
}

// reverbRuntime handles the "reverb" node kind. The two channels carry
// neighbouring seeds so their comb jitter decorrelates.
type reverbRuntime struct {
	left  *effects.Reverb
	right *effects.Reverb
}

func (r *reverbRuntime) Configure(_ Context, p Params) error {
	decay := clamp(p.GetNum("decay", 2), 0.01, 20)
	preDelay := clamp(p.GetNum("preDelay", 0.02), 0, 0.5)
	wet := clamp(p.GetNum("wet", 0.5), 0, 1)

	for _, rv := range []*effects.Reverb{r.left, r.right} {
		if err := rv.SetDecay(decay); err != nil {
			return fmt.Errorf("graph: set reverb decay: %w", err)
		}

		if err := rv.SetPreDelay(preDelay); err != nil {
			return fmt.Errorf("graph: set reverb pre-delay: %w", err)
		}

		if err := rv.SetWet(wet); err != nil {
			return fmt.Errorf("graph: set reverb wet: %w", err)
		}
	}

	return nil
}

func (r *reverbRuntime) Process(left, right []float64) {
	r.left.ProcessInPlace(left)
	r.right.ProcessInPlace(right)
}

// tremoloRuntime handles the "tremolo" node kind; both channels share
// the modulation phase.
type tremoloRuntime struct {
	left  *effects.Tremolo
	right *effects.Tremolo
}

func (r *tremoloRuntime) Configure(_ Context, p Params) error {
	rate := clamp(p.GetNum("rate", 5), 0.01, 20)
	depth := clamp(p.GetNum("depth", 0.5), 0, 1)

	for _, t := range []*effects.Tremolo{r.left, r.right} {
		if err := t.SetRateHz(rate); err != nil {
			return fmt.Errorf("graph: set tremolo rate: %w", err)
		}

		if err := t.SetDepth(depth); err != nil {
			return fmt.Errorf("graph: set tremolo depth: %w", err)
		}
	}

	return nil
}

func (r *tremoloRuntime) Process(left, right []float64) {
	r.left.ProcessInPlace(left)
	r.right.ProcessInPlace(right)
}
