package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cwbudde/algo-studio/buffer"
	"github.com/cwbudde/algo-studio/formats"
	"github.com/cwbudde/algo-studio/graph"
	"github.com/cwbudde/algo-studio/source"
)

// Session is a live playback chain: one source player feeding one
// processing graph, rendered into an output backend behind the gate.
// The output pulls blocks through RenderBlock on its own timeline; all
// other methods are safe to call concurrently with it.
type Session struct {
	mu sync.Mutex

	gate   *Gate
	output Output
	player *source.Player
	graph  *graph.Graph

	// savedRate holds the playback rate to restore when bypass is
	// disengaged.
	savedRate float64
}

// NewSession builds a playback chain around an output backend. The
// open callback receives the session's render function and returns the
// backend it should drive; passing a nil registry selects the default
// node set.
func NewSession(registry *graph.Registry, open func(RenderFunc) (Output, error)) (*Session, error) {
	if open == nil {
		return nil, errors.New("engine: open func must not be nil")
	}

	if registry == nil {
		registry = graph.DefaultRegistry()
	}

	s := &Session{savedRate: 1}

	output, err := open(s.RenderBlock)
	if err != nil {
		return nil, fmt.Errorf("engine: open output: %w", err)
	}

	if output == nil {
		return nil, errors.New("engine: open returned nil output")
	}

	gate, err := NewGate(output)
	if err != nil {
		return nil, err
	}

	player, err := source.NewPlayer(output.SampleRate())
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	s.gate = gate
	s.output = output
	s.player = player
	s.graph = graph.New(graph.Context{SampleRate: output.SampleRate()}, registry)

	return s, nil
}

// Gate returns the session's playback gate.
func (s *Session) Gate() *Gate { return s.gate }

// Graph returns the session's processing graph, e.g. for analyser taps.
func (s *Session) Graph() *graph.Graph { return s.graph }

// Resume asks the gate to start the output backend.
func (s *Session) Resume(ctx context.Context) error { return s.gate.Resume(ctx) }

// Suspend halts the output backend and freezes the clock.
func (s *Session) Suspend() error { return s.gate.Suspend() }

// State returns the gate's lifecycle position.
func (s *Session) State() State { return s.gate.State() }

// CurrentTime returns the gate's running-playback clock in seconds.
func (s *Session) CurrentTime() float64 { return s.gate.CurrentTime() }

// Close releases the graph and the output backend.
func (s *Session) Close() error {
	s.mu.Lock()
	s.graph.Dispose()
	s.mu.Unlock()

	return s.gate.Close()
}

// Load decodes an audio container and binds it to the player. The
// player passes through the loading state during the decode and falls
// back to idle when the decode fails.
func (s *Session) Load(data []byte, opts ...formats.Option) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.player.BeginLoading()

	buf, err := formats.Load(data, opts...)
	if err != nil {
		s.player.FailLoading()
		return err
	}

	s.player.Bind(buf)

	return nil
}

// Bind associates an already decoded buffer with the player.
func (s *Session) Bind(buf *buffer.Buffer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.player.Bind(buf)
}

// PlayerState returns the source lifecycle state.
func (s *Session) PlayerState() source.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.player.State()
}

// Play starts the bound source from the top. It fails with
// ErrNotRunning unless the gate is running.
func (s *Session) Play() error {
	if err := s.gate.RequireRunning(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.player.Play()
}

// Stop begins the player's release ramp.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.player.Stop()
}

// SetLoop toggles source looping.
func (s *Session) SetLoop(loop bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.player.SetLoop(loop)
}

// SetRate sets the playback rate in (0, 4]. While bypass is engaged the
// rate is parked and applied when bypass disengages.
func (s *Session) SetRate(rate float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.player.SetRate(rate)
	if err != nil {
		return err
	}

	if s.graph.Bypassed() {
		s.savedRate = rate
		return s.player.SetRate(1)
	}

	return nil
}

// Rate returns the player's active playback rate.
func (s *Session) Rate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.player.Rate()
}

// SetVolumeDB sets the source volume trim in [-60, 6] dB.
func (s *Session) SetVolumeDB(db float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.player.SetVolumeDB(db)
}

// LoadRecipe swaps the processing graph's topology. On error the prior
// graph keeps running.
func (s *Session) LoadRecipe(r graph.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.graph.Load(r)
}

// UpdateNode applies a parameter update to a single graph node.
func (s *Session) UpdateNode(params graph.Params) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.graph.UpdateNode(params)
}

// SetBypassed toggles the graph's wet/dry bypass. Engaging it also
// returns the playback rate to 1.0 so bypassed audio runs at its true
// speed; disengaging restores the prior rate alongside the wet signal.
func (s *Session) SetBypassed(bypass bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bypass == s.graph.Bypassed() {
		return
	}

	if bypass {
		s.savedRate = s.player.Rate()
		_ = s.player.SetRate(1)
	} else {
		_ = s.player.SetRate(s.savedRate)
	}

	s.graph.SetBypassed(bypass)
}

// Bypassed reports whether the wet/dry bypass is engaged.
func (s *Session) Bypassed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.graph.Bypassed()
}

// RenderBlock fills paired stereo blocks with the next stretch of
// session audio: player output pushed through the processing graph.
// Output backends call it from their audio callback.
func (s *Session) RenderBlock(left, right []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player == nil {
		zeroBlock(left)
		zeroBlock(right)

		return
	}

	s.player.NextBlock(left, right)

	if s.graph.Compiled() {
		s.graph.Process(left, right)
	}
}

func zeroBlock(block []float64) {
	for i := range block {
		block[i] = 0
	}
}
