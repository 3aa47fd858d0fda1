package source

import (
	"fmt"
	"math"
)

// sustainHoldFactor scales the sustain level into the hold duration a
// triggered note stays at sustain before releasing.
const sustainHoldFactor = 8.0

// envelopeStage enumerates the ADSR phases.
type envelopeStage int

const (
	stageIdle envelopeStage = iota
	stageAttack
	stageDecay
	stageSustain
	stageRelease
)

// Envelope is a triggered ADSR amplitude envelope: from trigger-on the
// level rises linearly to 1 over the attack, falls exponentially to the
// sustain level over the decay, holds until trigger-off, then decays
// exponentially to 0 over the release.
type Envelope struct {
	sampleRate float64

	attack  float64
	decay   float64
	sustain float64
	release float64

	stage      envelopeStage
	level      float64
	stageFrame int

	// autoRelease releases holdFrames after the decay completes;
	// TriggerNote sets it, TriggerOn leaves the release to TriggerOff.
	autoRelease bool
	holdFrames  int
}

// NewEnvelope creates an envelope with 10 ms attack, 100 ms decay, full
// sustain, and 200 ms release.
func NewEnvelope(sampleRate float64) (*Envelope, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("envelope sample rate must be > 0 and finite: %f", sampleRate)
	}

	return &Envelope{
		sampleRate: sampleRate,
		attack:     0.010,
		decay:      0.100,
		sustain:    1.0,
		release:    0.200,
	}, nil
}

// Set configures all four envelope parameters at once. Times are in
// seconds and must be positive; sustain must be in [0, 1].
func (e *Envelope) Set(attack, decay, sustain, release float64) error {
	for _, t := range []float64{attack, decay, release} {
		if t <= 0 || math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("envelope times must be > 0 and finite: a=%f d=%f r=%f",
				attack, decay, release)
		}
	}

	if sustain < 0 || sustain > 1 || math.IsNaN(sustain) {
		return fmt.Errorf("envelope sustain must be in [0, 1]: %f", sustain)
	}

	e.attack = attack
	e.decay = decay
	e.sustain = sustain
	e.release = release

	return nil
}

// Attack returns the attack time in seconds.
func (e *Envelope) Attack() float64 { return e.attack }

// Decay returns the decay time in seconds.
func (e *Envelope) Decay() float64 { return e.decay }

// Sustain returns the sustain level.
func (e *Envelope) Sustain() float64 { return e.sustain }

// Release returns the release time in seconds.
func (e *Envelope) Release() float64 { return e.release }

// Active reports whether the envelope is producing a nonzero shape.
func (e *Envelope) Active() bool { return e.stage != stageIdle }

// TriggerOn starts the attack. A retrigger while the envelope is still
// active is ignored.
func (e *Envelope) TriggerOn() bool {
	if e.stage != stageIdle {
		return false
	}

	e.stage = stageAttack
	e.stageFrame = 0
	e.autoRelease = false
	e.holdFrames = 0

	return true
}

// TriggerOff begins the release from the current level.
func (e *Envelope) TriggerOff() {
	if e.stage == stageIdle || e.stage == stageRelease {
		return
	}

	e.stage = stageRelease
	e.stageFrame = 0
}

// TriggerNote starts the attack and schedules the release
// automatically: the envelope holds at sustain for sustain * 8 seconds
// after the decay completes. A trigger while the envelope is still
// active is ignored; it reports whether the note was accepted.
func (e *Envelope) TriggerNote() bool {
	if !e.TriggerOn() {
		return false
	}

	e.autoRelease = true
	e.holdFrames = int(e.sustain * sustainHoldFactor * e.sampleRate)

	return true
}

// Reset silences the envelope immediately.
func (e *Envelope) Reset() {
	e.stage = stageIdle
	e.level = 0
	e.stageFrame = 0
	e.autoRelease = false
	e.holdFrames = 0
}

// Next advances one sample and returns the envelope level.
func (e *Envelope) Next() float64 {
	switch e.stage {
	case stageIdle:
		return 0

	case stageAttack:
		attackFrames := e.attack * e.sampleRate
		e.level = float64(e.stageFrame) / attackFrames
		if e.level >= 1 {
			e.level = 1
			e.stage = stageDecay
			e.stageFrame = 0
		}

	case stageDecay:
		// Time constant of decay/5 lands within 1% of sustain at the
		// end of the decay period.
		coeff := 1 - math.Exp(-5/(e.decay*e.sampleRate))
		e.level += (e.sustain - e.level) * coeff

		if float64(e.stageFrame) >= e.decay*e.sampleRate {
			e.level = e.sustain
			e.stage = stageSustain
			e.stageFrame = 0
		}

	case stageSustain:
		e.level = e.sustain
		if e.autoRelease && e.stageFrame >= e.holdFrames {
			e.stage = stageRelease
			e.stageFrame = 0
		}

	case stageRelease:
		coeff := 1 - math.Exp(-5/(e.release*e.sampleRate))
		e.level += (0 - e.level) * coeff

		if e.level < 1e-4 {
			e.Reset()
			return 0
		}
	}

	e.stageFrame++

	return e.level
}
