// Package biquad implements second-order IIR filter sections in Direct Form
// II Transposed, cascades of sections, and the RBJ cookbook designs used by
// the equaliser node kinds (lowpass, highpass, bandpass, peaking, low shelf,
// high shelf).
package biquad
