// Package source provides the sound sources feeding the processing
// graph: a buffer player with looping and variable playback rate, a
// periodic oscillator for the synthesis studios, and a triggered ADSR
// amplitude envelope.
package source
