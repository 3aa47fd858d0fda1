// Package pitch provides a windowed granular pitch shifter.
//
// The shifter sweeps two crossfaded read taps through a delay line at a
// rate derived from the pitch ratio. Each tap carries an equal-power
// raised-sine window, so grain boundaries stay click-free while the
// perceived pitch moves without changing duration.
package pitch
