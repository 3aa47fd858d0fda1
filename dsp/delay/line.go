// Package delay provides a circular delay line with integer and
// fractional-position reads.
package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-studio/dsp/interp"
)

// Line is a circular delay line. Writes advance the head; reads address
// samples relative to the head, so Read(1) returns the most recent write.
type Line struct {
	buffer   []float64
	writePos int
	mode     interp.Mode
}

// Option configures a Line.
type Option func(*Line)

// WithMode selects the fractional-read interpolation mode.
// The default is [interp.Hermite].
func WithMode(m interp.Mode) Option {
	return func(l *Line) { l.mode = m }
}

// New returns a delay line of fixed size in samples.
func New(size int, opts ...Option) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay: size must be > 0: %d", size)
	}

	l := &Line{
		buffer: make([]float64, size),
		mode:   interp.Hermite,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	return l, nil
}

// Len returns the internal buffer size.
func (l *Line) Len() int { return len(l.buffer) }

// Write appends one sample, advancing the head.
func (l *Line) Write(sample float64) {
	l.buffer[l.writePos] = sample
	l.writePos++
	if l.writePos >= len(l.buffer) {
		l.writePos = 0
	}
}

// Read returns the sample delay positions behind the head.
func (l *Line) Read(delayed int) float64 {
	size := len(l.buffer)
	readPos := ((l.writePos-delayed)%size + size) % size
	return l.buffer[readPos]
}

// ReadFractional reads a fractional delay using the configured
// interpolation mode. The delay is clamped to the valid range.
func (l *Line) ReadFractional(delayed float64) float64 {
	size := len(l.buffer)
	if delayed < 0 {
		delayed = 0
	}

	maxDelay := float64(size - 3)
	if maxDelay < 0 {
		maxDelay = 0
	}
	if delayed > maxDelay {
		delayed = maxDelay
	}

	p := int(math.Floor(delayed))
	t := delayed - float64(p)

	if l.mode == interp.Linear {
		return interp.Linear2(t, l.Read(p), l.Read(p+1))
	}

	xm1 := l.Read(maxInt(0, p-1))
	x0 := l.Read(p)
	x1 := l.Read(p + 1)
	x2 := l.Read(p + 2)
	return interp.Hermite4(t, xm1, x0, x1, x2)
}

// Reset clears all state.
func (l *Line) Reset() {
	for i := range l.buffer {
		l.buffer[i] = 0
	}
	l.writePos = 0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
