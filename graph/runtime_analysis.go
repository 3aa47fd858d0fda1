package graph

import (
	"fmt"

	"github.com/cwbudde/algo-studio/analysis"
)

// analyserRuntime handles the "analyser" node kind: a pass-through tap
// that records the mono mix of the stereo signal.
type analyserRuntime struct {
	fx *analysis.Analyser
}

func (r *analyserRuntime) Configure(_ Context, p Params) error {
	fftSize := nearestFFTSize(int(p.GetNum("fftSize", 2048)))

	err := r.fx.SetFFTSize(fftSize)
	if err != nil {
		return fmt.Errorf("graph: set analyser fft size: %w", err)
	}

	smoothing := clamp(p.GetNum("smoothing", 0.8), 0, 1)

	err = r.fx.SetSmoothing(smoothing)
	if err != nil {
		return fmt.Errorf("graph: set analyser smoothing: %w", err)
	}

	return nil
}

func (r *analyserRuntime) Process(left, right []float64) {
	for i := range left {
		r.fx.ProcessSample((left[i] + right[i]) * 0.5)
	}
}

// Waveform exposes the tap's time-domain snapshot.
func (r *analyserRuntime) Waveform() []float64 {
	return r.fx.Waveform()
}

// Magnitudes exposes the tap's byte-scaled magnitude spectrum.
func (r *analyserRuntime) Magnitudes() []byte {
	return r.fx.Magnitudes()
}

// nearestFFTSize snaps a requested size to the closest supported power
// of two in [256, 4096].
func nearestFFTSize(requested int) int {
	sizes := []int{256, 512, 1024, 2048, 4096}

	best := sizes[0]
	bestDiff := requested - best
	if bestDiff < 0 {
		bestDiff = -bestDiff
	}

	for _, s := range sizes[1:] {
		diff := requested - s
		if diff < 0 {
			diff = -diff
		}

		if diff < bestDiff {
			best = s
			bestDiff = diff
		}
	}

	return best
}
