package effects

import (
	"fmt"
	"math"
)

const (
	defaultDelayTimeSeconds = 0.25
	defaultDelayFeedback    = 0.35
	defaultDelayWet         = 0.25

	maxDelayTimeSeconds = 5.0
	maxDelayFeedback    = 0.95
)

// Delay is a feedback delay line with a wet mix.
type Delay struct {
	sampleRate   float64
	delaySeconds float64
	feedback     float64
	wet          float64

	delaySamples int
	buffer       []float64
	write        int
}

// NewDelay creates a delay with practical defaults.
func NewDelay(sampleRate float64) (*Delay, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("delay sample rate must be > 0 and finite: %f", sampleRate)
	}

	d := &Delay{
		sampleRate:   sampleRate,
		delaySeconds: defaultDelayTimeSeconds,
		feedback:     defaultDelayFeedback,
		wet:          defaultDelayWet,
	}
	d.reconfigureBuffer()

	return d, nil
}

// SetTime sets the delay time in [0, 5] seconds.
func (d *Delay) SetTime(seconds float64) error {
	if seconds < 0 || seconds > maxDelayTimeSeconds || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return fmt.Errorf("delay time must be in [0, %g]: %f", maxDelayTimeSeconds, seconds)
	}
	d.delaySeconds = seconds
	d.reconfigureBuffer()
	return nil
}

// SetFeedback sets the feedback amount in [0, 0.95].
func (d *Delay) SetFeedback(feedback float64) error {
	if feedback < 0 || feedback > maxDelayFeedback || math.IsNaN(feedback) || math.IsInf(feedback, 0) {
		return fmt.Errorf("delay feedback must be in [0, %g]: %f", maxDelayFeedback, feedback)
	}
	d.feedback = feedback
	return nil
}

// SetWet sets the wet amount in [0, 1].
func (d *Delay) SetWet(wet float64) error {
	if wet < 0 || wet > 1 || math.IsNaN(wet) || math.IsInf(wet, 0) {
		return fmt.Errorf("delay wet must be in [0, 1]: %f", wet)
	}
	d.wet = wet
	return nil
}

// Time returns the delay time in seconds.
func (d *Delay) Time() float64 { return d.delaySeconds }

// Feedback returns the feedback amount.
func (d *Delay) Feedback() float64 { return d.feedback }

// Wet returns the wet amount.
func (d *Delay) Wet() float64 { return d.wet }

// Reset clears delay state.
func (d *Delay) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.write = 0
}

// ProcessSample processes one sample.
func (d *Delay) ProcessSample(input float64) float64 {
	if d.delaySamples == 0 || len(d.buffer) == 0 {
		return input
	}

	read := d.write - d.delaySamples
	if read < 0 {
		read += len(d.buffer)
	}
	delayed := d.buffer[read]

	d.buffer[d.write] = input + delayed*d.feedback
	d.write++
	if d.write >= len(d.buffer) {
		d.write = 0
	}

	return input*(1-d.wet) + delayed*d.wet
}

// ProcessInPlace applies the delay to buf in place.
func (d *Delay) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = d.ProcessSample(buf[i])
	}
}

func (d *Delay) reconfigureBuffer() {
	d.delaySamples = int(math.Round(d.delaySeconds * d.sampleRate))

	needed := d.delaySamples + 1
	if needed > len(d.buffer) {
		buf := make([]float64, needed)
		copy(buf, d.buffer)
		d.buffer = buf
	}

	if d.write >= len(d.buffer) {
		d.write = 0
	}
}
