package render

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/cwbudde/algo-studio/buffer"
	"github.com/cwbudde/algo-studio/dsp/biquad"
	"github.com/cwbudde/algo-studio/dsp/interp"
	"github.com/cwbudde/algo-studio/effects"
	"github.com/cwbudde/algo-studio/graph"
)

// ErrRender marks offline rendering failures. No partial output is
// returned alongside it.
var ErrRender = errors.New("render: render failed")

const (
	blockFrames = 512

	minRate = 1e-3
	maxRate = 4.0
)

// Option configures a render run.
type Option func(*config)

type config struct {
	rate     float64
	bypass   bool
	registry *graph.Registry
	progress func(percent int)
}

// WithRate sets the playback rate applied to the input before the
// graph. Values are clamped to (0, 4].
func WithRate(rate float64) Option {
	return func(cfg *config) {
		if math.IsNaN(rate) {
			return
		}

		cfg.rate = math.Min(math.Max(rate, minRate), maxRate)
	}
}

// WithBypass renders the input untouched: the rate is restored to 1
// and the graph is skipped, so the output is sample-identical to the
// input.
func WithBypass(bypass bool) Option {
	return func(cfg *config) { cfg.bypass = bypass }
}

// WithRegistry overrides the node registry used to build the graph.
func WithRegistry(r *graph.Registry) Option {
	return func(cfg *config) {
		if r != nil {
			cfg.registry = r
		}
	}
}

// WithProgress installs an integer-percent progress callback. Reported
// values are monotonically non-decreasing and end at 100.
func WithProgress(fn func(percent int)) Option {
	return func(cfg *config) { cfg.progress = fn }
}

// Render builds the recipe in an offline context matched to the input
// buffer, plays the input through it exactly once from frame 0, and
// returns the rendered buffer. The output length is
// ceil(inputFrames / rate).
func Render(ctx context.Context, recipe graph.Recipe, input *buffer.Buffer, opts ...Option) (*buffer.Buffer, error) {
	cfg := config{rate: 1, registry: graph.DefaultRegistry()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if input == nil || input.Frames() == 0 || input.Channels() == 0 {
		return nil, fmt.Errorf("%w: empty input buffer", ErrRender)
	}

	if cfg.bypass {
		cfg.rate = 1
	}

	sampleRate := input.SampleRate()
	inFrames := input.Frames()
	outFrames := int(math.Ceil(float64(inFrames) / cfg.rate))

	left, right := resampleStereo(input, cfg.rate, outFrames)

	if !cfg.bypass {
		g := graph.New(graph.Context{
			SampleRate: sampleRate,
			Offline:    true,
			Seed:       recipeSeed(recipe, cfg.rate),
		}, cfg.registry)
		defer g.Dispose()

		if err := g.Load(recipe); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRender, err)
		}

		if err := processBlocks(ctx, g, left, right, cfg.progress); err != nil {
			return nil, err
		}

		softClipBlock(left)
		softClipBlock(right)
	} else {
		report(cfg.progress, 100)
	}

	out, err := buffer.FromPlanes([][]float64{left, right}, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	return out, nil
}

func processBlocks(ctx context.Context, g *graph.Graph, left, right []float64, progress func(int)) error {
	total := len(left)
	lastPercent := -1

	for start := 0; start < total; start += blockFrames {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%w: %w", ErrRender, err)
			}
		}

		end := start + blockFrames
		if end > total {
			end = total
		}

		if !g.Process(left[start:end], right[start:end]) {
			return fmt.Errorf("%w: graph rejected block at frame %d", ErrRender, start)
		}

		percent := end * 100 / total
		if percent > lastPercent {
			report(progress, percent)

			lastPercent = percent
		}
	}

	if lastPercent < 100 {
		report(progress, 100)
	}

	return nil
}

func report(progress func(int), percent int) {
	if progress != nil {
		progress(percent)
	}
}

// resampleStereo reads the first two input channels (duplicating a
// mono channel) at the given rate with linear interpolation. Rates
// other than 1 get a low-pass pre-filter at 0.4 times the Nyquist of
// the effective rate to suppress aliasing.
func resampleStereo(input *buffer.Buffer, rate float64, outFrames int) (left, right []float64) {
	srcL := input.Channel(0)
	srcR := srcL

	if input.Channels() > 1 {
		srcR = input.Channel(1)
	}

	if rate != 1 {
		sampleRate := input.SampleRate()

		effective := sampleRate * rate
		if rate > 1 {
			effective = sampleRate / rate
		}

		cutoff := 0.4 * effective / 2

		srcL = prefilter(srcL, cutoff, sampleRate)

		if input.Channels() > 1 {
			srcR = prefilter(srcR, cutoff, sampleRate)
		} else {
			srcR = srcL
		}
	}

	left = make([]float64, outFrames)
	right = make([]float64, outFrames)

	last := len(srcL) - 1

	for i := 0; i < outFrames; i++ {
		pos := float64(i) * rate

		idx := int(pos)
		if idx >= last {
			left[i] = srcL[last]
			right[i] = srcR[last]

			continue
		}

		frac := pos - float64(idx)
		left[i] = interp.Linear2(frac, srcL[idx], srcL[idx+1])
		right[i] = interp.Linear2(frac, srcR[idx], srcR[idx+1])
	}

	return left, right
}

// prefilter applies a two-section Butterworth-style low-pass and
// returns a filtered copy.
func prefilter(src []float64, cutoff, sampleRate float64) []float64 {
	chain := biquad.NewChain([]biquad.Coefficients{
		biquad.Lowpass(cutoff, 0.54, sampleRate),
		biquad.Lowpass(cutoff, 1.31, sampleRate),
	})

	dst := make([]float64, len(src))
	copy(dst, src)
	chain.ProcessBlock(dst)

	return dst
}

func softClipBlock(block []float64) {
	for i, s := range block {
		block[i] = effects.SoftClip(s)
	}
}

// recipeSeed derives the deterministic seed for stochastic graph
// components from the recipe's parameter vector and the rate.
func recipeSeed(recipe graph.Recipe, rate float64) uint64 {
	h := fnv.New64a()

	data, err := recipe.Encode()
	if err == nil {
		_, _ = h.Write(data)
	}

	var rateBits [8]byte

	bits := math.Float64bits(rate)
	for i := range rateBits {
		rateBits[i] = byte(bits >> (8 * i))
	}

	_, _ = h.Write(rateBits[:])

	return h.Sum64()
}
