// Package effects provides the time-based and amplitude-modulation
// processors of the node library: feedback delay, multi-tap reverb, tremolo,
// and the soft clipper applied to offline mixes.
//
// All processors are mono, per-channel; the graph runtime instantiates one
// per channel. They are real-time safe and not thread-safe.
package effects
