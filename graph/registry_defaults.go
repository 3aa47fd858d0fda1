package graph

import (
	"github.com/cwbudde/algo-studio/analysis"
	"github.com/cwbudde/algo-studio/effects"
	"github.com/cwbudde/algo-studio/effects/dynamics"
	"github.com/cwbudde/algo-studio/effects/pitch"
	"github.com/cwbudde/algo-studio/effects/spatial"
)

// DefaultRegistry returns a Registry pre-populated with all built-in
// node runtimes.
//
//nolint:funlen
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister("gain", func(_ Context) (Runtime, error) {
		return &gainRuntime{}, nil
	})
	r.MustRegister("biquad", func(_ Context) (Runtime, error) {
		return &filterRuntime{}, nil
	})
	r.MustRegister("compressor", func(ctx Context) (Runtime, error) {
		left, err := dynamics.NewCompressor(ctx.SampleRate)
		if err != nil {
			return nil, err
		}

		right, err := dynamics.NewCompressor(ctx.SampleRate)
		if err != nil {
			return nil, err
		}

		return &compressorRuntime{left: left, right: right}, nil
	})
	r.MustRegister("limiter", func(ctx Context) (Runtime, error) {
		left, err := dynamics.NewLimiter(ctx.SampleRate)
		if err != nil {
			return nil, err
		}

		right, err := dynamics.NewLimiter(ctx.SampleRate)
		if err != nil {
			return nil, err
		}

		return &limiterRuntime{left: left, right: right}, nil
	})
	r.MustRegister("delay", func(ctx Context) (Runtime, error) {
		left, err := effects.NewDelay(ctx.SampleRate)
		if err != nil {
			return nil, err
		}

		right, err := effects.NewDelay(ctx.SampleRate)
		if err != nil {
			return nil, err
		}

		return &delayRuntime{left: left, right: right}, nil
	})
	r.MustRegister("reverb", func(ctx Context) (Runtime, error) {
		left, err := effects.NewReverb(ctx.SampleRate, effects.WithReverbSeed(ctx.Seed))
		if err != nil {
			return nil, err
		}

		right, err := effects.NewReverb(ctx.SampleRate, effects.WithReverbSeed(ctx.Seed+1))
		if err != nil {
			return nil, err
		}

		return &reverbRuntime{left: left, right: right}, nil
	})
	r.MustRegister("chorus", func(ctx Context) (Runtime, error) {
		left, right, err := newChorusPair(ctx)
		if err != nil {
			return nil, err
		}

		return &chorusRuntime{left: left, right: right}, nil
	})
	r.MustRegister("tremolo", func(ctx Context) (Runtime, error) {
		left, err := effects.NewTremolo(ctx.SampleRate)
		if err != nil {
			return nil, err
		}

		right, err := effects.NewTremolo(ctx.SampleRate)
		if err != nil {
			return nil, err
		}

		return &tremoloRuntime{left: left, right: right}, nil
	})
	r.MustRegister("widener", func(_ Context) (Runtime, error) {
		return &widenerRuntime{fx: spatial.NewStereoWidener()}, nil
	})
	r.MustRegister("panner", func(_ Context) (Runtime, error) {
		return &pannerRuntime{fx: spatial.NewPanner()}, nil
	})
	r.MustRegister("pitch-shift", func(ctx Context) (Runtime, error) {
		left, err := pitch.NewShifter(ctx.SampleRate)
		if err != nil {
			return nil, err
		}

		right, err := pitch.NewShifter(ctx.SampleRate)
		if err != nil {
			return nil, err
		}

		return &pitchRuntime{left: left, right: right}, nil
	})
	r.MustRegister("analyser", func(_ Context) (Runtime, error) {
		fx, err := analysis.NewAnalyser()
		if err != nil {
			return nil, err
		}

		return &analyserRuntime{fx: fx}, nil
	})

	return r
}
