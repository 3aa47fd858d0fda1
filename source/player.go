package source

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-studio/buffer"
	"github.com/cwbudde/algo-studio/dsp/interp"
)

// State enumerates the player lifecycle.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StatePlaying
	StateStopping
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StatePlaying:
		return "playing"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// ErrNoBuffer is returned by Play when no buffer is bound.
var ErrNoBuffer = errors.New("source: no buffer bound")

const (
	minPlaybackRate = 0.0
	maxPlaybackRate = 4.0

	minVolumeDB = -60.0
	maxVolumeDB = 6.0

	// stopRampSeconds is the short fade applied on stop and at the end
	// of a non-looping buffer so playback never ends with a click.
	stopRampSeconds = 0.005
)

// Player plays a bound buffer through the graph's source entry point,
// with looping, variable playback rate, and a volume trim. Playback
// position moves fractionally and reads with linear interpolation.
type Player struct {
	sampleRate float64

	buf   *buffer.Buffer
	state State

	loop bool
	rate float64
	gain float64

	pos      float64
	stopGain float64
}

// NewPlayer creates an idle player at the given output sample rate.
func NewPlayer(sampleRate float64) (*Player, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("player sample rate must be > 0 and finite: %f", sampleRate)
	}

	return &Player{
		sampleRate: sampleRate,
		state:      StateIdle,
		rate:       1,
		gain:       1,
	}, nil
}

// State returns the current lifecycle state.
func (p *Player) State() State { return p.state }

// Buffer returns the bound buffer, or nil.
func (p *Player) Buffer() *buffer.Buffer { return p.buf }

// Loop reports whether playback wraps at the buffer end.
func (p *Player) Loop() bool { return p.loop }

// Rate returns the playback rate.
func (p *Player) Rate() float64 { return p.rate }

// SetLoop toggles looping.
func (p *Player) SetLoop(loop bool) {
	p.loop = loop
}

// SetRate sets the playback rate in (0, 4].
func (p *Player) SetRate(rate float64) error {
	if rate <= minPlaybackRate || rate > maxPlaybackRate ||
		math.IsNaN(rate) || math.IsInf(rate, 0) {
		return fmt.Errorf("player rate must be in (%g, %g]: %f",
			minPlaybackRate, maxPlaybackRate, rate)
	}

	p.rate = rate

	return nil
}

// SetVolumeDB sets the volume trim in [-60, 6] dB.
func (p *Player) SetVolumeDB(db float64) error {
	if db < minVolumeDB || db > maxVolumeDB || math.IsNaN(db) || math.IsInf(db, 0) {
		return fmt.Errorf("player volume must be in [%g, %g] dB: %f",
			minVolumeDB, maxVolumeDB, db)
	}

	p.gain = math.Pow(10, db/20)

	return nil
}

// BeginLoading marks the player as waiting for a decode. Any prior
// binding is dropped.
func (p *Player) BeginLoading() {
	p.buf = nil
	p.state = StateLoading
	p.pos = 0
}

// FailLoading returns the player to idle after a failed decode.
func (p *Player) FailLoading() {
	p.buf = nil
	p.state = StateIdle
}

// Bind associates a decoded buffer with the player. Any prior binding
// is stopped and replaced.
func (p *Player) Bind(buf *buffer.Buffer) {
	p.buf = buf
	p.pos = 0

	if buf == nil {
		p.state = StateIdle
		return
	}

	p.state = StateLoaded
}

// Play starts playback from the buffer start. Playing again while a
// stop is still releasing completes the release first, so the new
// playback starts strictly after the prior instance has ended.
func (p *Player) Play() error {
	if p.buf == nil {
		return ErrNoBuffer
	}

	if p.state == StateStopping {
		p.finishStop()
	}

	p.pos = 0
	p.stopGain = 1
	p.state = StatePlaying

	return nil
}

// Stop begins the stop ramp. A stopped or unbound player is unchanged.
func (p *Player) Stop() {
	if p.state != StatePlaying {
		return
	}

	p.state = StateStopping
}

func (p *Player) finishStop() {
	p.state = StateLoaded
	p.pos = 0
	p.stopGain = 1
}

// NextBlock fills paired left/right blocks with the next stretch of
// playback. Silence is written when the player is not producing audio.
// It returns true while the player remains in a playing or stopping
// state after the block.
func (p *Player) NextBlock(left, right []float64) bool {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}

	for i := 0; i < n; i++ {
		l, r := p.nextSample()
		left[i] = l
		right[i] = r
	}

	return p.state == StatePlaying || p.state == StateStopping
}

func (p *Player) nextSample() (float64, float64) {
	if p.state != StatePlaying && p.state != StateStopping {
		return 0, 0
	}

	frames := p.buf.Frames()
	if frames == 0 {
		p.finishStop()
		return 0, 0
	}

	l := p.readChannel(0)
	r := l
	if p.buf.Channels() > 1 {
		r = p.readChannel(1)
	}

	gain := p.gain
	if p.state == StateStopping {
		gain *= p.stopGain

		p.stopGain -= 1 / (stopRampSeconds * p.sampleRate)
		if p.stopGain <= 0 {
			p.finishStop()
		}
	}

	p.pos += p.rate
	if p.pos >= float64(frames) {
		if p.loop && p.state == StatePlaying {
			p.pos -= float64(frames)
		} else if p.state == StatePlaying {
			p.state = StateStopping
		}
	}

	return l * gain, r * gain
}

func (p *Player) readChannel(ch int) float64 {
	data := p.buf.Channel(ch)

	idx := int(p.pos)
	if idx >= len(data)-1 {
		if idx >= len(data) {
			return 0
		}

		return data[idx]
	}

	t := p.pos - float64(idx)

	return interp.Linear2(t, data[idx], data[idx+1])
}
