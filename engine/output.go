package engine

import (
	"errors"
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// RenderFunc fills paired stereo blocks for the output backend. It
// runs on the audio callback's timeline.
type RenderFunc func(left, right []float64)

// Output is a playback backend the gate can start and stop.
type Output interface {
	Start() error
	Stop() error
	Close() error
	SampleRate() float64
}

// NullOutput is a silent backend for tests and offline-only use. A
// non-nil StartErr makes every start attempt fail, which the gate
// treats as a recoverable refusal.
type NullOutput struct {
	Rate     float64
	StartErr error

	started bool
}

func (n *NullOutput) Start() error {
	if n.StartErr != nil {
		return n.StartErr
	}

	n.started = true

	return nil
}

func (n *NullOutput) Stop() error {
	n.started = false
	return nil
}

func (n *NullOutput) Close() error { return nil }

func (n *NullOutput) SampleRate() float64 {
	if n.Rate <= 0 {
		return 44100
	}

	return n.Rate
}

// Started reports whether the backend believes it is playing.
func (n *NullOutput) Started() bool { return n.started }

// PortAudioOutput plays stereo audio through the default PortAudio
// device, pulling blocks from a RenderFunc.
type PortAudioOutput struct {
	sampleRate  float64
	frames      int
	render      RenderFunc
	stream      *portaudio.Stream
	left, right []float64
}

// NewPortAudioOutput initialises PortAudio and prepares a stereo
// stream at the given rate. Close releases the subsystem.
func NewPortAudioOutput(sampleRate float64, frames int, render RenderFunc) (*PortAudioOutput, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("engine: sample rate must be > 0: %f", sampleRate)
	}

	if frames <= 0 {
		frames = 512
	}

	if render == nil {
		return nil, errors.New("engine: render func must not be nil")
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("engine: initialise portaudio: %w", err)
	}

	return &PortAudioOutput{
		sampleRate: sampleRate,
		frames:     frames,
		render:     render,
		left:       make([]float64, frames),
		right:      make([]float64, frames),
	}, nil
}

func (o *PortAudioOutput) SampleRate() float64 { return o.sampleRate }

func (o *PortAudioOutput) Start() error {
	if o.stream == nil {
		stream, err := portaudio.OpenDefaultStream(0, 2, o.sampleRate, o.frames, o.callback)
		if err != nil {
			return fmt.Errorf("engine: open stream: %w", err)
		}

		o.stream = stream
	}

	if err := o.stream.Start(); err != nil {
		return fmt.Errorf("engine: start stream: %w", err)
	}

	return nil
}

func (o *PortAudioOutput) Stop() error {
	if o.stream == nil {
		return nil
	}

	if err := o.stream.Stop(); err != nil {
		return fmt.Errorf("engine: stop stream: %w", err)
	}

	return nil
}

func (o *PortAudioOutput) Close() error {
	var firstErr error

	if o.stream != nil {
		if err := o.stream.Close(); err != nil {
			firstErr = fmt.Errorf("engine: close stream: %w", err)
		}

		o.stream = nil
	}

	if err := portaudio.Terminate(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("engine: terminate portaudio: %w", err)
	}

	return firstErr
}

func (o *PortAudioOutput) callback(out [][]float32) {
	frames := len(out[0])

	if cap(o.left) < frames {
		o.left = make([]float64, frames)
		o.right = make([]float64, frames)
	}

	o.left = o.left[:frames]
	o.right = o.right[:frames]

	o.render(o.left, o.right)

	for i := 0; i < frames; i++ {
		out[0][i] = float32(o.left[i])
		out[1][i] = float32(o.right[i])
	}
}
