package studio

import (
	"context"
	"math"
	"testing"

	"github.com/cwbudde/algo-studio/buffer"
	"github.com/cwbudde/algo-studio/internal/testutil"
	"github.com/cwbudde/algo-studio/render"
)

func renderTone(t *testing.T, def Definition, params map[string]float64, freq float64, frames int) *buffer.Buffer {
	t.Helper()

	recipe, rate := def.ApplyParams(params)

	// Low level keeps the limiter out of the way so the filter gain is
	// what gets measured.
	input := testutil.StereoSine(freq, 44100, 0.01, frames)

	out, err := render.Render(context.Background(), recipe, input, render.WithRate(rate))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	return out
}

func rms(block []float64) float64 {
	sum := 0.0
	for _, s := range block {
		sum += s * s
	}

	return math.Sqrt(sum / float64(len(block)))
}

func TestBassBoosterLiftsLowEnd(t *testing.T) {
	t.Parallel()

	def, _ := Get("bass-booster")

	preset, _ := def.Preset("808 Style")

	const frames = 44100

	low := renderTone(t, def, preset.Params, 60, frames)
	mid := renderTone(t, def, preset.Params, 1000, frames)

	// Skip the filter settling transient.
	lowRMS := rms(low.Channel(0)[frames/4:])
	midRMS := rms(mid.Channel(0)[frames/4:])

	ratio := 20 * math.Log10(lowRMS/midRMS)
	if ratio < 18 {
		t.Fatalf("60 Hz sits only %.1f dB above 1 kHz, want >= 18 dB of boost", ratio)
	}

	// The limiter keeps the boosted render inside full scale.
	peak := 0.0

	strong := renderTone(t, def, preset.Params, 60, frames)
	for _, s := range strong.Channel(0) {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}

	if peak > 1 {
		t.Fatalf("peak = %f, want <= 1 (no clipping)", peak)
	}
}

func TestSlowedReverbDreamyAtHalfRate(t *testing.T) {
	t.Parallel()

	def, _ := Get("slowed-reverb-studio")

	preset, _ := def.Preset("Dreamy")

	params := make(map[string]float64, len(preset.Params))
	for k, v := range preset.Params {
		params[k] = v
	}

	params["slowRate"] = 0.5

	recipe, rate := def.ApplyParams(params)
	if rate != 0.5 {
		t.Fatalf("rate = %f, want 0.5", rate)
	}

	const frames = 8192

	input := testutil.StereoSine(220, 44100, 0.4, frames)

	out, err := render.Render(context.Background(), recipe, input, render.WithRate(rate))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if out.Frames() != 2*frames {
		t.Fatalf("output length = %d, want %d", out.Frames(), 2*frames)
	}

	// The reverb tail keeps the end of the stretched render alive.
	tail := out.Channel(0)[out.Frames()-out.Frames()/10:]
	if rms(tail) == 0 {
		t.Fatal("expected reverb energy in the final stretch of the render")
	}
}

func TestEQResponseCurve(t *testing.T) {
	t.Parallel()

	freqs := []float64{60, 1000, 12000}

	flat := EQResponseDB(nil, freqs, 44100)
	for i, db := range flat {
		if math.Abs(db) > 0.5 {
			t.Errorf("flat curve at %.0f Hz = %.2f dB, want about 0", freqs[i], db)
		}
	}

	boosted := EQResponseDB(map[string]float64{"midGain": 12, "midFreq": 1000}, freqs, 44100)

	if boosted[1] < 10 {
		t.Errorf("mid boost at 1 kHz = %.2f dB, want about 12", boosted[1])
	}

	if math.Abs(boosted[0]) > 3 || math.Abs(boosted[2]) > 3 {
		t.Errorf("mid boost leaked into the outer bands: %v", boosted)
	}

	// Out-of-range writes clamp to the declared range.
	clamped := EQResponseDB(map[string]float64{"midGain": 1000}, []float64{1000}, 44100)
	if clamped[0] > 41 {
		t.Errorf("clamped mid gain produced %.2f dB, range caps at 40", clamped[0])
	}
}
