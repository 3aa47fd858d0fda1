package spatial

import (
	"fmt"
	"math"
)

const defaultWidenerWidth = 0.5

// StereoWidener adjusts the width of a stereo image using mid/side
// processing. The input is encoded into mid (sum) and side (difference)
// components, the side signal is scaled, and the pair is decoded back to
// left/right.
//
// The width control spans [0, 1]: 0 collapses the image to the mono sum,
// 0.5 leaves the signal unchanged, and 1 applies the maximum mid/side
// separation.
type StereoWidener struct {
	width float64
}

// NewStereoWidener creates a widener at the neutral width of 0.5.
func NewStereoWidener() *StereoWidener {
	return &StereoWidener{width: defaultWidenerWidth}
}

// Width returns the current stereo width.
func (w *StereoWidener) Width() float64 { return w.width }

// SetWidth sets the stereo width in [0, 1].
func (w *StereoWidener) SetWidth(width float64) error {
	if width < 0 || width > 1 || math.IsNaN(width) || math.IsInf(width, 0) {
		return fmt.Errorf("stereo widener width must be in [0, 1]: %f", width)
	}

	w.width = width

	return nil
}

// ProcessStereo processes a single stereo sample pair and returns the
// widened left and right outputs.
func (w *StereoWidener) ProcessStereo(left, right float64) (float64, float64) {
	mid := (left + right) * 0.5
	side := (left - right) * 0.5

	sideGain := w.width * 2

	outL := mid + side*sideGain
	outR := mid - side*sideGain

	return outL, outR
}

// ProcessStereoInPlace applies widening to paired left/right buffers in
// place. Both buffers must have the same length.
func (w *StereoWidener) ProcessStereoInPlace(left, right []float64) error {
	if len(left) != len(right) {
		return fmt.Errorf("stereo widener: left and right buffers must have equal length: %d != %d",
			len(left), len(right))
	}

	for i := range left {
		left[i], right[i] = w.ProcessStereo(left[i], right[i])
	}

	return nil
}
