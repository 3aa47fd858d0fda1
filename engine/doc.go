// Package engine owns the process-wide audio gate: the tri-state
// playback subsystem (uninitialised, suspended, running) that every
// studio shares, its monotonic clock, and the output backends it
// drives. Session composes the gate with a source player and a
// processing graph into a complete live playback chain.
package engine
