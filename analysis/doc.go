// Package analysis provides a pass-through analyser tap exposing
// time-domain waveform and byte-scaled magnitude snapshots of the signal
// flowing through it.
package analysis
