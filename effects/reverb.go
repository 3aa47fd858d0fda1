package effects

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	reverbNumCombs     = 8
	reverbNumAllpasses = 4

	defaultReverbDecaySeconds = 2.0
	defaultReverbPreDelay     = 0.02
	defaultReverbWet          = 0.5

	maxReverbDecaySeconds    = 20.0
	maxReverbPreDelaySeconds = 0.5

	// Comb tunings in samples at 44.1 kHz, scaled to the actual rate.
	combJitterFraction = 0.04
)

var reverbCombTunings = [reverbNumCombs]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}

var reverbAllpassTunings = [reverbNumAllpasses]int{556, 441, 341, 225}

// ReverbOption mutates reverb construction parameters.
type ReverbOption func(*reverbConfig)

type reverbConfig struct {
	seed uint64
}

// WithReverbSeed fixes the pseudo-random comb jitter so two reverbs built
// with the same seed and parameters are sample-identical. The offline
// renderer derives the seed from the recipe's parameter vector.
func WithReverbSeed(seed uint64) ReverbOption {
	return func(cfg *reverbConfig) { cfg.seed = seed }
}

// Reverb is an exponentially-decaying multi-tap reverberator: a pre-delay
// line feeding eight parallel feedback combs whose decay follows the
// configured RT60, diffused through four series allpasses.
type Reverb struct {
	sampleRate   float64
	decaySeconds float64
	preDelay     float64
	wet          float64
	seed         uint64

	preBuf   []float64
	preWrite int
	preLen   int

	combs   [reverbNumCombs]reverbComb
	allpass [reverbNumAllpasses]reverbAllpass
}

type reverbComb struct {
	feedback float64
	buffer   []float64
	index    int
}

func (c *reverbComb) process(input float64) float64 {
	out := c.buffer[c.index]
	if math.Abs(out) < 1e-23 {
		out = 0
	}
	c.buffer[c.index] = input + out*c.feedback
	c.index++
	if c.index >= len(c.buffer) {
		c.index = 0
	}
	return out
}

type reverbAllpass struct {
	feedback float64
	buffer   []float64
	index    int
}

func (a *reverbAllpass) process(input float64) float64 {
	bufOut := a.buffer[a.index]
	output := bufOut - input
	a.buffer[a.index] = input + bufOut*a.feedback
	a.index++
	if a.index >= len(a.buffer) {
		a.index = 0
	}
	return output
}

// NewReverb constructs a reverb at the given sample rate.
func NewReverb(sampleRate float64, opts ...ReverbOption) (*Reverb, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("reverb sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := reverbConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	r := &Reverb{
		sampleRate:   sampleRate,
		decaySeconds: defaultReverbDecaySeconds,
		preDelay:     defaultReverbPreDelay,
		wet:          defaultReverbWet,
		seed:         cfg.seed,
	}
	r.rebuild()

	return r, nil
}

// SetDecay sets the RT60 decay time in (0, 20] seconds.
func (r *Reverb) SetDecay(seconds float64) error {
	if seconds <= 0 || seconds > maxReverbDecaySeconds || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return fmt.Errorf("reverb decay must be in (0, %g]: %f", maxReverbDecaySeconds, seconds)
	}
	r.decaySeconds = seconds
	r.updateFeedback()
	return nil
}

// SetPreDelay sets the pre-delay in [0, 0.5] seconds.
func (r *Reverb) SetPreDelay(seconds float64) error {
	if seconds < 0 || seconds > maxReverbPreDelaySeconds || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return fmt.Errorf("reverb pre-delay must be in [0, %g]: %f", maxReverbPreDelaySeconds, seconds)
	}
	r.preDelay = seconds
	r.rebuildPreDelay()
	return nil
}

// SetWet sets the wet amount in [0, 1].
func (r *Reverb) SetWet(wet float64) error {
	if wet < 0 || wet > 1 || math.IsNaN(wet) || math.IsInf(wet, 0) {
		return fmt.Errorf("reverb wet must be in [0, 1]: %f", wet)
	}
	r.wet = wet
	return nil
}

// Decay returns the RT60 decay time in seconds.
func (r *Reverb) Decay() float64 { return r.decaySeconds }

// PreDelay returns the pre-delay in seconds.
func (r *Reverb) PreDelay() float64 { return r.preDelay }

// Wet returns the wet amount.
func (r *Reverb) Wet() float64 { return r.wet }

// Reset clears all delay state without changing the tuning.
func (r *Reverb) Reset() {
	for i := range r.preBuf {
		r.preBuf[i] = 0
	}
	r.preWrite = 0

	for i := range r.combs {
		for j := range r.combs[i].buffer {
			r.combs[i].buffer[j] = 0
		}
		r.combs[i].index = 0
	}

	for i := range r.allpass {
		for j := range r.allpass[i].buffer {
			r.allpass[i].buffer[j] = 0
		}
		r.allpass[i].index = 0
	}
}

// ProcessSample processes one sample.
func (r *Reverb) ProcessSample(input float64) float64 {
	delayed := input
	if r.preLen > 0 {
		read := r.preWrite - r.preLen
		if read < 0 {
			read += len(r.preBuf)
		}
		delayed = r.preBuf[read]

		r.preBuf[r.preWrite] = input
		r.preWrite++
		if r.preWrite >= len(r.preBuf) {
			r.preWrite = 0
		}
	}

	wet := 0.0
	for i := range r.combs {
		wet += r.combs[i].process(delayed)
	}
	wet /= reverbNumCombs

	for i := range r.allpass {
		wet = r.allpass[i].process(wet)
	}

	return input*(1-r.wet) + wet*r.wet
}

// ProcessInPlace applies the reverb to buf in place.
func (r *Reverb) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = r.ProcessSample(buf[i])
	}
}

// rebuild allocates the tap network. Comb lengths are the 44.1 kHz tunings
// scaled to the sample rate, each jittered by up to 4% from the seed so that
// tap phases are deterministic per seed.
func (r *Reverb) rebuild() {
	rng := rand.New(rand.NewSource(int64(r.seed)))
	scale := r.sampleRate / 44100.0

	for i := range r.combs {
		jitter := 1 + combJitterFraction*(rng.Float64()*2-1)
		size := int(math.Round(float64(reverbCombTunings[i]) * scale * jitter))
		if size < 4 {
			size = 4
		}
		r.combs[i].buffer = make([]float64, size)
		r.combs[i].index = 0
	}

	for i := range r.allpass {
		size := int(math.Round(float64(reverbAllpassTunings[i]) * scale))
		if size < 4 {
			size = 4
		}
		r.allpass[i].buffer = make([]float64, size)
		r.allpass[i].feedback = 0.5
	}

	r.rebuildPreDelay()
	r.updateFeedback()
}

func (r *Reverb) rebuildPreDelay() {
	r.preLen = int(math.Round(r.preDelay * r.sampleRate))
	needed := r.preLen + 1
	if needed > len(r.preBuf) {
		buf := make([]float64, needed)
		copy(buf, r.preBuf)
		r.preBuf = buf
	}
	if r.preWrite >= len(r.preBuf) {
		r.preWrite = 0
	}
}

// updateFeedback derives each comb's feedback from the RT60 decay:
// g = 10^(-3 * loopSeconds / decaySeconds).
func (r *Reverb) updateFeedback() {
	for i := range r.combs {
		loopSeconds := float64(len(r.combs[i].buffer)) / r.sampleRate
		g := math.Pow(10, -3*loopSeconds/r.decaySeconds)
		if g > 0.999 {
			g = 0.999
		}
		r.combs[i].feedback = g
	}
}
