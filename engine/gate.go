package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
)

// ErrNotRunning reports an operation that needs the audio subsystem in
// the running state. It is recoverable: resume and retry.
var ErrNotRunning = errors.New("engine: audio subsystem is not running")

// State is the gate's lifecycle position.
type State int

const (
	Uninitialised State = iota
	Suspended
	Running
)

func (s State) String() string {
	switch s {
	case Uninitialised:
		return "uninitialised"
	case Suspended:
		return "suspended"
	case Running:
		return "running"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Gate is the process-wide audio playback gate. A resume attempt that
// the backend refuses leaves the gate suspended without error; the
// caller may retry. The clock advances only while running and never
// moves backwards.
type Gate struct {
	mu sync.Mutex

	output Output
	state  State

	startedAt time.Time
	elapsed   time.Duration

	observers []func(State)
}

// NewGate wraps an output backend in an uninitialised gate.
func NewGate(output Output) (*Gate, error) {
	if output == nil {
		return nil, errors.New("engine: output must not be nil")
	}

	return &Gate{output: output}, nil
}

// State returns the current lifecycle position.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}

// Resume attempts to transition to running. It is idempotent and never
// fails on a backend refusal: the gate then stays suspended and the
// caller may resume again later. Only context cancellation is
// returned as an error.
func (g *Gate) Resume(ctx context.Context) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == Running {
		return nil
	}

	if err := g.output.Start(); err != nil {
		// Recoverable: the subsystem stays suspended.
		g.setStateLocked(Suspended)

		return nil
	}

	g.startedAt = time.Now()
	g.setStateLocked(Running)

	return nil
}

// Suspend halts playback and freezes the clock.
func (g *Gate) Suspend() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != Running {
		g.setStateLocked(Suspended)
		return nil
	}

	g.elapsed += time.Since(g.startedAt)

	err := g.output.Stop()

	g.setStateLocked(Suspended)

	if err != nil {
		return fmt.Errorf("engine: suspend: %w", err)
	}

	return nil
}

// Close suspends and releases the backend. The gate cannot be resumed
// afterwards.
func (g *Gate) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == Running {
		g.elapsed += time.Since(g.startedAt)
		_ = g.output.Stop()
	}

	g.setStateLocked(Uninitialised)

	if err := g.output.Close(); err != nil {
		return fmt.Errorf("engine: close: %w", err)
	}

	return nil
}

// CurrentTime returns seconds of running playback. It is 0 before the
// first resume, advances monotonically while running, and holds its
// value while suspended.
func (g *Gate) CurrentTime() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	total := g.elapsed
	if g.state == Running {
		total += time.Since(g.startedAt)
	}

	return math.Max(total.Seconds(), 0)
}

// RequireRunning gates operations that need live audio.
func (g *Gate) RequireRunning() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != Running {
		return fmt.Errorf("%w: state is %s", ErrNotRunning, g.state)
	}

	return nil
}

// OnStateChange registers an observer invoked on every transition.
// Observers run synchronously under the gate's lock; keep them short.
func (g *Gate) OnStateChange(fn func(State)) {
	if fn == nil {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.observers = append(g.observers, fn)
}

func (g *Gate) setStateLocked(next State) {
	if g.state == next {
		return
	}

	g.state = next

	for _, fn := range g.observers {
		fn(next)
	}
}
