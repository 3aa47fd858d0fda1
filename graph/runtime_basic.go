package graph

import (
	"fmt"

	"github.com/cwbudde/algo-studio/dsp/biquad"
)

// gainRuntime handles the "gain" node kind with smoothed level changes.
type gainRuntime struct {
	gain       *Smoother
	configured bool
}

func (r *gainRuntime) Configure(ctx Context, p Params) error {
	if r.gain == nil {
		gain, err := NewSmoother(ctx.SampleRate, DefaultSmoothingTau)
		if err != nil {
			return fmt.Errorf("graph: gain smoother: %w", err)
		}

		r.gain = gain
	}

	target := clamp(p.GetNum("gain", 1), 0, 4)
	r.gain.SetTarget(target)

	if !r.configured {
		r.gain.Snap(target)
		r.configured = true
	}

	return nil
}

func (r *gainRuntime) Process(left, right []float64) {
	for i := range left {
		g := r.gain.Next()
		left[i] *= g
		right[i] *= g
	}
}

// filterRuntime handles the "biquad" node kind with one section per
// channel sharing coefficients.
type filterRuntime struct {
	left  *biquad.Section
	right *biquad.Section
}

func (r *filterRuntime) Configure(ctx Context, p Params) error {
	nyquist := ctx.SampleRate * 0.5

	freq := clamp(p.GetNum("frequency", 1000), 10, nyquist*0.99)
	q := clamp(p.GetNum("q", 0.707), 0.0001, 40)
	gainDB := clamp(p.GetNum("gainDb", 0), -40, 40)

	var coeffs biquad.Coefficients

	switch p.GetStr("filterType", "peaking") {
	case "lowpass":
		coeffs = biquad.Lowpass(freq, q, ctx.SampleRate)
	case "highpass":
		coeffs = biquad.Highpass(freq, q, ctx.SampleRate)
	case "bandpass":
		coeffs = biquad.Bandpass(freq, q, ctx.SampleRate)
	case "lowshelf":
		coeffs = biquad.LowShelf(freq, gainDB, q, ctx.SampleRate)
	case "highshelf":
		coeffs = biquad.HighShelf(freq, gainDB, q, ctx.SampleRate)
	case "peaking":
		coeffs = biquad.Peak(freq, gainDB, q, ctx.SampleRate)
	default:
		return fmt.Errorf("%w: unsupported filter type %q", ErrBuild, p.GetStr("filterType", ""))
	}

	if r.left == nil {
		r.left = biquad.NewSection(coeffs)
		r.right = biquad.NewSection(coeffs)

		return nil
	}

	r.left.SetCoefficients(coeffs)
	r.right.SetCoefficients(coeffs)

	return nil
}

func (r *filterRuntime) Process(left, right []float64) {
	r.left.ProcessBlock(left)
	r.right.ProcessBlock(right)
}
