package biquad

import (
	"math"
	"math/cmplx"
)

// Coefficients holds the transfer function coefficients for a single
// second-order section. a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// Identity returns pass-through coefficients.
func Identity() Coefficients {
	return Coefficients{B0: 1}
}

// Section is a single biquad filter with coefficients and internal state.
type Section struct {
	Coefficients

	d0, d1 float64
}

// NewSection returns a Section initialized with the given coefficients
// and zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one input sample and returns the output.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.d0
	s.d0 = s.B1*x - s.A1*y + s.d1
	s.d1 = s.B2*x - s.A2*y

	return y
}

// ProcessBlock filters a block of samples in-place. Zero-alloc.
func (s *Section) ProcessBlock(buf []float64) {
	b0, b1, b2 := s.B0, s.B1, s.B2
	a1, a2 := s.A1, s.A2
	d0, d1 := s.d0, s.d1

	for i, x := range buf {
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}

	s.d0, s.d1 = d0, d1
}

// SetCoefficients swaps the filter coefficients, keeping the delay state.
// Keeping state avoids clicks when parameters are retuned mid-stream.
func (s *Section) SetCoefficients(c Coefficients) {
	s.Coefficients = c
}

// Response evaluates the complex frequency response at freq (Hz).
func (s *Section) Response(freq, sampleRate float64) complex128 {
	return s.Coefficients.Response(freq, sampleRate)
}

// Response evaluates the complex frequency response at freq (Hz).
func (c Coefficients) Response(freq, sampleRate float64) complex128 {
	w := 2 * math.Pi * freq / sampleRate
	z1 := cmplx.Exp(complex(0, -w))
	z2 := z1 * z1

	num := complex(c.B0, 0) + complex(c.B1, 0)*z1 + complex(c.B2, 0)*z2
	den := complex(1, 0) + complex(c.A1, 0)*z1 + complex(c.A2, 0)*z2

	return num / den
}

// Reset clears the delay line to zero.
func (s *Section) Reset() {
	s.d0 = 0
	s.d1 = 0
}
