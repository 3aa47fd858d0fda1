package studio

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-studio/source"
)

// Downbeat and secondary tick pitches. C5 marks beat 1, C4 the rest.
const (
	DownbeatFrequency = 523.2511306011972
	TickFrequency     = 261.6255653005986

	tickLengthSec = 0.05
	tickGain      = 0.5
)

// Metronome emits pitched ticks for a time signature. Beats are
// indexed 1..numerator; the subdivision carrying the beat equals the
// denominator, so 120 BPM in 4/4 ticks every 500 ms.
type Metronome struct {
	sampleRate  float64
	tempoBPM    float64
	numerator   int
	denominator int

	osc     *source.Oscillator
	running bool

	frame       int64
	beatSamples float64
	tickSamples int
}

// NewMetronome builds a stopped metronome.
func NewMetronome(sampleRate, tempoBPM float64, numerator, denominator int) (*Metronome, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) {
		return nil, fmt.Errorf("studio: sample rate must be > 0: %f", sampleRate)
	}

	m := &Metronome{sampleRate: sampleRate}

	if err := m.SetTempo(tempoBPM); err != nil {
		return nil, err
	}

	if err := m.SetSignature(numerator, denominator); err != nil {
		return nil, err
	}

	osc, err := source.NewOscillator(sampleRate)
	if err != nil {
		return nil, err
	}

	m.osc = osc
	m.tickSamples = int(tickLengthSec * sampleRate)

	return m, nil
}

// SetTempo updates the tempo in beats per minute.
func (m *Metronome) SetTempo(tempoBPM float64) error {
	if tempoBPM <= 0 || math.IsNaN(tempoBPM) || math.IsInf(tempoBPM, 0) {
		return fmt.Errorf("studio: tempo must be > 0: %f", tempoBPM)
	}

	m.tempoBPM = tempoBPM
	m.updateBeatLength()

	return nil
}

// SetSignature updates the time signature.
func (m *Metronome) SetSignature(numerator, denominator int) error {
	if numerator < 1 {
		return fmt.Errorf("studio: numerator must be >= 1: %d", numerator)
	}

	if denominator < 1 {
		return fmt.Errorf("studio: denominator must be >= 1: %d", denominator)
	}

	m.numerator = numerator
	m.denominator = denominator
	m.updateBeatLength()

	return nil
}

// The beat carries the denominator subdivision: a quarter-note pulse
// in x/4, an eighth-note pulse in x/8.
func (m *Metronome) updateBeatLength() {
	if m.tempoBPM <= 0 || m.denominator < 1 {
		return
	}

	quarter := m.sampleRate * 60.0 / m.tempoBPM
	m.beatSamples = quarter * 4.0 / float64(m.denominator)
}

// BeatDuration returns one beat's length in seconds.
func (m *Metronome) BeatDuration() float64 {
	return m.beatSamples / m.sampleRate
}

// Start begins ticking from beat 1 at time zero.
func (m *Metronome) Start() {
	m.frame = 0
	m.running = true
	m.osc.Reset()
}

// Stop halts ticking.
func (m *Metronome) Stop() { m.running = false }

// Running reports whether the metronome is ticking.
func (m *Metronome) Running() bool { return m.running }

// Beat returns the 1-based beat indicator for the current position.
func (m *Metronome) Beat() int {
	if m.beatSamples <= 0 {
		return 1
	}

	beat := int(float64(m.frame) / m.beatSamples)

	return beat%m.numerator + 1
}

// BeatAt returns the 1-based beat indicator at a time offset in
// seconds from the start.
func (m *Metronome) BeatAt(seconds float64) int {
	if seconds < 0 || m.beatSamples <= 0 {
		return 1
	}

	beat := int(seconds * m.sampleRate / m.beatSamples)

	return beat%m.numerator + 1
}

// NextBlock renders ticks into paired stereo blocks, overwriting their
// contents. Silence is rendered while stopped.
func (m *Metronome) NextBlock(left, right []float64) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}

	for i := 0; i < n; i++ {
		v := m.nextSample()
		left[i] = v
		right[i] = v
	}
}

func (m *Metronome) nextSample() float64 {
	if !m.running || m.beatSamples <= 0 {
		return 0
	}

	beatIndex := int(float64(m.frame) / m.beatSamples)
	beatStart := int64(float64(beatIndex) * m.beatSamples)
	offset := int(m.frame - beatStart)

	v := 0.0

	if offset < m.tickSamples {
		if offset == 0 {
			m.osc.Reset()

			freq := TickFrequency
			if beatIndex%m.numerator == 0 {
				freq = DownbeatFrequency
			}

			// In range by construction, both pitches sit mid-band.
			_ = m.osc.SetFrequency(freq)
		}

		fade := 1.0 - float64(offset)/float64(m.tickSamples)
		v = tickGain * fade * m.osc.NextSample()
	}

	m.frame++

	return v
}
