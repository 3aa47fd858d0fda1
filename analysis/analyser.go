package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
)

const (
	defaultAnalyserFFTSize   = 2048
	defaultAnalyserSmoothing = 0.8

	analyserMinDB = -100.0
	analyserMaxDB = -30.0

	analyserEps = 1e-12
)

// Analyser is a pass-through tap that snapshots the signal flowing
// through it. Waveform returns the most recent time-domain frame and
// Magnitudes returns a byte-scaled magnitude spectrum, both sized by the
// configured FFT length.
//
// This processor is mono and not thread-safe.
type Analyser struct {
	fftSize   int
	smoothing float64

	ring   []float64
	write  int
	filled int

	window []float64
	input  []complex128
	output []complex128
	plan   *algofft.Plan[complex128]

	smoothed  []float64
	haveFrame bool

	waveform   []float64
	magnitudes []byte
}

// Option configures an Analyser.
type Option func(*Analyser) error

// WithFFTSize sets the FFT length. Valid sizes are the powers of two
// from 256 to 4096.
func WithFFTSize(fftSize int) Option {
	return func(a *Analyser) error {
		return a.SetFFTSize(fftSize)
	}
}

// WithSmoothing sets the spectral smoothing factor in [0, 1].
func WithSmoothing(smoothing float64) Option {
	return func(a *Analyser) error {
		return a.SetSmoothing(smoothing)
	}
}

// NewAnalyser creates an analyser with a 2048-point FFT and 0.8 smoothing.
func NewAnalyser(opts ...Option) (*Analyser, error) {
	a := &Analyser{smoothing: defaultAnalyserSmoothing}

	if err := a.SetFFTSize(defaultAnalyserFFTSize); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// FFTSize returns the FFT length.
func (a *Analyser) FFTSize() int { return a.fftSize }

// Smoothing returns the spectral smoothing factor.
func (a *Analyser) Smoothing() float64 { return a.smoothing }

// SetFFTSize updates the FFT length and reallocates internal state.
// Valid sizes are 256, 512, 1024, 2048, and 4096.
func (a *Analyser) SetFFTSize(fftSize int) error {
	switch fftSize {
	case 256, 512, 1024, 2048, 4096:
	default:
		return fmt.Errorf("analyser fft size must be a power of two in [256, 4096]: %d", fftSize)
	}

	if fftSize == a.fftSize {
		return nil
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return fmt.Errorf("analyser fft plan: %w", err)
	}

	a.fftSize = fftSize
	a.plan = plan
	a.ring = make([]float64, fftSize)
	a.window = blackmanWindow(fftSize)
	a.input = make([]complex128, fftSize)
	a.output = make([]complex128, fftSize)
	a.smoothed = make([]float64, fftSize/2)
	a.waveform = make([]float64, fftSize)
	a.magnitudes = make([]byte, fftSize/2)
	a.write = 0
	a.filled = 0
	a.haveFrame = false

	return nil
}

// SetSmoothing updates the spectral smoothing factor in [0, 1]. Higher
// values hold more of the previous frame.
func (a *Analyser) SetSmoothing(smoothing float64) error {
	if smoothing < 0 || smoothing > 1 || math.IsNaN(smoothing) {
		return fmt.Errorf("analyser smoothing must be in [0, 1]: %f", smoothing)
	}

	a.smoothing = smoothing

	return nil
}

// ProcessSample records one sample. The tap is pass-through, so callers
// forward the input unchanged.
func (a *Analyser) ProcessSample(input float64) {
	a.ring[a.write] = input

	a.write++
	if a.write >= a.fftSize {
		a.write = 0
	}

	if a.filled < a.fftSize {
		a.filled++
	}
}

// Process records a block of samples.
func (a *Analyser) Process(block []float64) {
	for _, s := range block {
		a.ProcessSample(s)
	}
}

// Reset clears the ring buffer and spectral history.
func (a *Analyser) Reset() {
	for i := range a.ring {
		a.ring[i] = 0
	}
	for i := range a.smoothed {
		a.smoothed[i] = 0
	}

	a.write = 0
	a.filled = 0
	a.haveFrame = false
}

// Waveform returns the latest time-domain frame, oldest sample first.
// The returned slice is reused between calls and reallocated only when
// the FFT size changes; callers must not retain it across calls.
func (a *Analyser) Waveform() []float64 {
	read := a.write
	for i := 0; i < a.fftSize; i++ {
		a.waveform[i] = a.ring[read]

		read++
		if read >= a.fftSize {
			read = 0
		}
	}

	return a.waveform
}

// Magnitudes returns the byte-scaled magnitude spectrum: fftSize/2 bins
// mapping [-100, -30] dBFS onto [0, 255]. The slice is reused between
// calls. Before any audio has passed through, all bins are zero.
func (a *Analyser) Magnitudes() []byte {
	if a.filled < a.fftSize {
		for i := range a.magnitudes {
			a.magnitudes[i] = 0
		}

		return a.magnitudes
	}

	a.updateFrame()

	scale := 255.0 / (analyserMaxDB - analyserMinDB)
	for k, mag := range a.smoothed {
		db := 20 * math.Log10(math.Max(mag, analyserEps))

		v := (db - analyserMinDB) * scale
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}

		a.magnitudes[k] = byte(v)
	}

	return a.magnitudes
}

func (a *Analyser) updateFrame() {
	read := a.write
	for i := 0; i < a.fftSize; i++ {
		a.input[i] = complex(a.ring[read]*a.window[i], 0)

		read++
		if read >= a.fftSize {
			read = 0
		}
	}

	if err := a.plan.Forward(a.output, a.input); err != nil {
		return
	}

	norm := float64(a.fftSize)
	for k := range a.smoothed {
		mag := cmplx.Abs(a.output[k]) / norm

		if !a.haveFrame {
			a.smoothed[k] = mag
			continue
		}

		a.smoothed[k] = a.smoothing*a.smoothed[k] + (1-a.smoothing)*mag
	}

	a.haveFrame = true
}

func blackmanWindow(n int) []float64 {
	win := make([]float64, n)
	if n == 1 {
		win[0] = 1
		return win
	}

	for i := range win {
		t := 2 * math.Pi * float64(i) / float64(n-1)
		win[i] = 0.42 - 0.5*math.Cos(t) + 0.08*math.Cos(2*t)
	}

	return win
}
