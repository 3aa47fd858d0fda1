// Package modulation provides LFO-driven processors: the chorus node kind
// and the low-frequency oscillator it shares with parameter automation.
package modulation
