package graph

// Runtime is the per-node processing and configuration contract.
// Process receives paired left/right blocks of equal length and
// transforms them in place.
type Runtime interface {
	Configure(ctx Context, params Params) error
	Process(left, right []float64)
}

// WaveformTap is an optional interface for runtimes that expose a
// time-domain snapshot of the signal flowing through them.
type WaveformTap interface {
	Waveform() []float64
}

// MagnitudeTap is an optional interface for runtimes that expose a
// byte-scaled magnitude spectrum of the signal flowing through them.
type MagnitudeTap interface {
	Magnitudes() []byte
}
