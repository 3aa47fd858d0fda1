package biquad

// Chain is an ordered cascade of biquad sections processed in series.
// Higher-order filters (the offline resampler's anti-aliasing prefilter)
// feed each second-order section into the next.
type Chain struct {
	sections []Section
}

// NewChain creates a cascade from one or more coefficient sets.
func NewChain(coeffs []Coefficients) *Chain {
	c := &Chain{sections: make([]Section, len(coeffs))}
	for i := range coeffs {
		c.sections[i].Coefficients = coeffs[i]
	}

	return c
}

// Len returns the number of sections.
func (c *Chain) Len() int { return len(c.sections) }

// ProcessSample cascades the input through all sections in order.
func (c *Chain) ProcessSample(x float64) float64 {
	for i := range c.sections {
		x = c.sections[i].ProcessSample(x)
	}

	return x
}

// ProcessBlock filters a block in-place through the full cascade.
func (c *Chain) ProcessBlock(buf []float64) {
	for i := range c.sections {
		c.sections[i].ProcessBlock(buf)
	}
}

// Response evaluates the combined complex frequency response at freq (Hz).
func (c *Chain) Response(freq, sampleRate float64) complex128 {
	h := complex(1, 0)
	for i := range c.sections {
		h *= c.sections[i].Response(freq, sampleRate)
	}

	return h
}

// Reset clears the delay state of every section.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}
