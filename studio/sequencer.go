package studio

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-studio/source"
)

const (
	// StepCount is the fixed grid length of the step sequencer.
	StepCount = 16

	maxVoices       = 12
	minDecaySeconds = 0.02
	voiceAttackSec  = 0.005
)

// Step is one cell of the sequencer grid.
type Step struct {
	Key     DrumKey
	Enabled bool
}

type seqVoice struct {
	osc         *source.Oscillator
	ageSamples  int
	decaySample int
	gain        float64
}

// Sequencer plays a 16-step drum grid through synthesised voices. Each
// enabled step triggers a pitched voice from the drum sampler mapping;
// voices share a small pool and the oldest is stolen when it fills.
type Sequencer struct {
	sampleRate float64
	waveform   source.Waveform

	tempoBPM float64
	decaySec float64
	swing    float64

	steps   [StepCount]Step
	running bool

	currentStep          int
	samplesUntilNextStep float64

	voices []seqVoice
}

// NewSequencer builds a stopped sequencer at 120 BPM.
func NewSequencer(sampleRate float64) (*Sequencer, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) {
		return nil, fmt.Errorf("studio: sample rate must be > 0: %f", sampleRate)
	}

	return &Sequencer{
		sampleRate: sampleRate,
		waveform:   source.Sine,
		tempoBPM:   120,
		decaySec:   0.25,
	}, nil
}

// SetWaveform selects the oscillator shape for newly-triggered voices.
func (s *Sequencer) SetWaveform(w source.Waveform) { s.waveform = w }

// SetTransport updates tempo, voice decay, and swing amount.
func (s *Sequencer) SetTransport(tempoBPM, decaySec, swing float64) {
	if tempoBPM > 0 {
		s.tempoBPM = tempoBPM
	}

	if decaySec < minDecaySeconds {
		decaySec = minDecaySeconds
	}

	s.decaySec = decaySec

	s.swing = math.Min(math.Max(swing, 0), 1)
}

// SetRunning starts or stops step triggering. Starting rewinds to the
// first step.
func (s *Sequencer) SetRunning(running bool) {
	if running && !s.running {
		s.currentStep = 0
		s.samplesUntilNextStep = 0
	}

	s.running = running
}

// Running reports whether steps are being triggered.
func (s *Sequencer) Running() bool { return s.running }

// CurrentStep returns the grid position that fires next.
func (s *Sequencer) CurrentStep() int { return s.currentStep }

// SetStep writes one grid cell.
func (s *Sequencer) SetStep(index int, step Step) error {
	if index < 0 || index >= StepCount {
		return fmt.Errorf("studio: step index out of range: %d", index)
	}

	s.steps[index] = step

	return nil
}

// SetSteps writes the grid from the front; extra entries are ignored.
func (s *Sequencer) SetSteps(steps []Step) {
	for i := 0; i < StepCount && i < len(steps); i++ {
		s.steps[i] = steps[i]
	}
}

// Trigger fires a pad immediately, outside the grid clock.
func (s *Sequencer) Trigger(key DrumKey) {
	note, ok := DrumNote(key)
	if !ok {
		return
	}

	s.spawnVoice(NoteFrequency(note))
}

// NextBlock renders the sequencer into paired stereo blocks,
// overwriting their contents.
func (s *Sequencer) NextBlock(left, right []float64) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}

	for i := 0; i < n; i++ {
		if s.running {
			s.advanceClock()
		}

		v := s.nextSample()
		left[i] = v
		right[i] = v
	}
}

func (s *Sequencer) advanceClock() {
	if s.samplesUntilNextStep <= 0 {
		s.triggerCurrentStep()

		s.samplesUntilNextStep += s.stepDurationSamples(s.currentStep)
		s.currentStep = (s.currentStep + 1) % StepCount
	}

	s.samplesUntilNextStep--
}

func (s *Sequencer) triggerCurrentStep() {
	step := s.steps[s.currentStep]
	if !step.Enabled {
		return
	}

	note, ok := DrumNote(step.Key)
	if !ok {
		return
	}

	s.spawnVoice(NoteFrequency(note))
}

func (s *Sequencer) spawnVoice(freq float64) {
	if len(s.voices) >= maxVoices {
		copy(s.voices, s.voices[1:])
		s.voices = s.voices[:maxVoices-1]
	}

	osc, err := source.NewOscillator(s.sampleRate)
	if err != nil {
		return
	}

	osc.SetWaveform(s.waveform)

	if err := osc.SetFrequency(freq); err != nil {
		return
	}

	decaySamples := int(s.decaySec * s.sampleRate)
	if decaySamples < 1 {
		decaySamples = 1
	}

	s.voices = append(s.voices, seqVoice{
		osc:         osc,
		decaySample: decaySamples,
		gain:        0.22,
	})
}

func (s *Sequencer) nextSample() float64 {
	if len(s.voices) == 0 {
		return 0
	}

	attackSamples := int(voiceAttackSec * s.sampleRate)
	if attackSamples < 1 {
		attackSamples = 1
	}

	sum := 0.0
	write := 0

	for i := range s.voices {
		v := s.voices[i]
		if v.ageSamples >= v.decaySample {
			continue
		}

		env := voiceEnvelope(v.ageSamples, attackSamples, v.decaySample)
		sum += env * v.gain * v.osc.NextSample()

		v.ageSamples++
		s.voices[write] = v
		write++
	}

	s.voices = s.voices[:write]

	return sum
}

// stepDurationSamples is the length of one sixteenth-note step,
// stretched or squeezed by swing on alternating steps.
func (s *Sequencer) stepDurationSamples(stepIndex int) float64 {
	base := s.sampleRate * 60.0 / s.tempoBPM / 4.0

	ratio := swingRatio(s.swing)
	if ratio <= 0 {
		return base
	}

	if stepIndex%2 == 0 {
		return base * (1 + ratio)
	}

	return base * (1 - ratio)
}

// swingRatio maps the 0..1 control onto a 0..1/3 timing ratio with a
// gentle curve.
func swingRatio(swing float64) float64 {
	return (1.0 / 3.0) * math.Pow(math.Min(math.Max(swing, 0), 1), 1.6)
}

// voiceEnvelope is an exponential attack/decay pair between near-zero
// endpoints.
func voiceEnvelope(age, attack, decay int) float64 {
	const (
		start = 0.0001
		peak  = 1.0
		end   = 0.0001
	)

	if age < attack {
		t := float64(age) / float64(attack)
		return start * math.Pow(peak/start, t)
	}

	if decay <= attack {
		return end
	}

	t := float64(age-attack) / float64(decay-attack)

	return peak * math.Pow(end/peak, t)
}
