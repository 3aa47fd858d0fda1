package spatial

import (
	"fmt"
	"math"
)

// Panner positions a signal in the stereo field with an equal-power pan
// law. Pan spans [-1, 1]: -1 is hard left, 0 is centre, +1 is hard right.
type Panner struct {
	pan float64
}

// NewPanner creates a centred panner.
func NewPanner() *Panner {
	return &Panner{}
}

// Pan returns the current pan position.
func (p *Panner) Pan() float64 { return p.pan }

// SetPan sets the pan position in [-1, 1].
func (p *Panner) SetPan(pan float64) error {
	if pan < -1 || pan > 1 || math.IsNaN(pan) || math.IsInf(pan, 0) {
		return fmt.Errorf("panner pan must be in [-1, 1]: %f", pan)
	}

	p.pan = pan

	return nil
}

// ProcessMono pans a mono sample into a stereo pair. The left and right
// gains trace a quarter sine arc so total power stays constant across the
// pan range.
func (p *Panner) ProcessMono(input float64) (float64, float64) {
	x := (p.pan + 1) * 0.5
	gainL := math.Cos(x * math.Pi / 2)
	gainR := math.Sin(x * math.Pi / 2)

	return input * gainL, input * gainR
}

// ProcessStereo pans a stereo sample pair. Panning away from centre folds
// the far channel into the near one with equal-power gains, so a fully
// panned signal carries the energy of both input channels.
func (p *Panner) ProcessStereo(left, right float64) (float64, float64) {
	if p.pan <= 0 {
		x := (p.pan + 1) * math.Pi / 2
		return left + right*math.Cos(x), right * math.Sin(x)
	}

	x := p.pan * math.Pi / 2

	return left * math.Cos(x), right + left*math.Sin(x)
}

// ProcessStereoInPlace applies panning to paired left/right buffers in
// place. Both buffers must have the same length.
func (p *Panner) ProcessStereoInPlace(left, right []float64) error {
	if len(left) != len(right) {
		return fmt.Errorf("panner: left and right buffers must have equal length: %d != %d",
			len(left), len(right))
	}

	for i := range left {
		left[i], right[i] = p.ProcessStereo(left[i], right[i])
	}

	return nil
}
