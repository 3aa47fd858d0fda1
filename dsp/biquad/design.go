package biquad

import "math"

const defaultQ = 1 / math.Sqrt2

// normalizedW0 converts freq (Hz) to the normalized angular frequency,
// clamping into the audio band below Nyquist.
func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return 0, false
	}

	nyquist := sampleRate * 0.5
	if freq < 1 {
		freq = 1
	}
	if freq > nyquist*0.99 {
		freq = nyquist * 0.99
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func normalizedQ(q float64) float64 {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return defaultQ
	}
	return q
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return Identity()
	}

	inv := 1 / a0
	return Coefficients{
		B0: b0 * inv,
		B1: b1 * inv,
		B2: b2 * inv,
		A1: a1 * inv,
		A2: a2 * inv,
	}
}

// Lowpass designs a lowpass biquad at freq (Hz) with quality factor q.
func Lowpass(freq, q, sampleRate float64) Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return Identity()
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	return normalizeBiquad((1-cw)/2, 1-cw, (1-cw)/2, 1+alpha, -2*cw, 1-alpha)
}

// Highpass designs a highpass biquad at freq (Hz) with quality factor q.
func Highpass(freq, q, sampleRate float64) Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return Identity()
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	return normalizeBiquad((1+cw)/2, -(1 + cw), (1+cw)/2, 1+alpha, -2*cw, 1-alpha)
}

// Bandpass designs a constant-skirt-gain bandpass biquad.
func Bandpass(freq, q, sampleRate float64) Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return Identity()
	}

	q = normalizedQ(q)
	sw := math.Sin(w0)
	cw := math.Cos(w0)
	alpha := sw / (2 * q)

	return normalizeBiquad(sw/2, 0, -sw/2, 1+alpha, -2*cw, 1-alpha)
}

// Peak designs a peaking-EQ biquad with gain in dB.
func Peak(freq, gainDB, q, sampleRate float64) Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return Identity()
	}

	q = normalizedQ(q)
	a := math.Pow(10, gainDB/40)
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	return normalizeBiquad(1+alpha*a, -2*cw, 1-alpha*a, 1+alpha/a, -2*cw, 1-alpha/a)
}

// LowShelf designs a low-shelf biquad with gain in dB.
func LowShelf(freq, gainDB, q, sampleRate float64) Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return Identity()
	}

	q = normalizedQ(q)
	a := math.Pow(10, gainDB/40)
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)
	beta := 2 * math.Sqrt(a) * alpha

	b0 := a * ((a + 1) - (a-1)*cw + beta)
	b1 := 2 * a * ((a - 1) - (a+1)*cw)
	b2 := a * ((a + 1) - (a-1)*cw - beta)
	a0 := (a + 1) + (a-1)*cw + beta
	a1 := -2 * ((a - 1) + (a+1)*cw)
	a2 := (a + 1) + (a-1)*cw - beta

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

// HighShelf designs a high-shelf biquad with gain in dB.
func HighShelf(freq, gainDB, q, sampleRate float64) Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return Identity()
	}

	q = normalizedQ(q)
	a := math.Pow(10, gainDB/40)
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)
	beta := 2 * math.Sqrt(a) * alpha

	b0 := a * ((a + 1) + (a-1)*cw + beta)
	b1 := -2 * a * ((a - 1) + (a+1)*cw)
	b2 := a * ((a + 1) + (a-1)*cw - beta)
	a0 := (a + 1) - (a-1)*cw + beta
	a1 := 2 * ((a - 1) - (a+1)*cw)
	a2 := (a + 1) - (a-1)*cw - beta

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}
