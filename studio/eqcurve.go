package studio

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-studio/dsp/biquad"
)

// EQResponseDB evaluates the eq-studio's three-band magnitude response
// in dB at the given frequencies, for drawing the response curve. The
// parameter vector uses the studio's binding names (lowGain, midGain,
// highGain, midFreq, midQ); missing entries fall back to defaults.
func EQResponseDB(params map[string]float64, freqs []float64, sampleRate float64) []float64 {
	def, _ := Get("eq-studio")

	value := func(name string) float64 {
		if v, ok := params[name]; ok {
			r := def.Ranges[name]
			return math.Min(math.Max(v, r.Min), r.Max)
		}

		return def.Ranges[name].Default
	}

	low := biquad.LowShelf(120, value("lowGain"), 0.707, sampleRate)
	mid := biquad.Peak(value("midFreq"), value("midGain"), value("midQ"), sampleRate)
	high := biquad.HighShelf(8000, value("highGain"), 0.707, sampleRate)

	out := make([]float64, len(freqs))

	for i, f := range freqs {
		f = math.Min(math.Max(f, 1), sampleRate*0.49)

		h := low.Response(f, sampleRate)
		h *= mid.Response(f, sampleRate)
		h *= high.Response(f, sampleRate)

		out[i] = 20 * math.Log10(math.Max(1e-12, cmplx.Abs(h)))
	}

	return out
}
