package graph

// Context provides environmental information that node runtimes need.
type Context struct {
	SampleRate float64

	// Offline marks deterministic non-realtime rendering. Runtimes apply
	// parameter writes without smoothing when the smoothing constant is
	// shorter than a single frame.
	Offline bool

	// Seed drives any randomised internal state so offline renders of
	// the same recipe are reproducible.
	Seed uint64
}
