package dynamics

import (
	"math"
	"testing"
)

const testRate = 44100.0

func dbToLin(db float64) float64 { return math.Pow(10, db/20) }

func linToDB(lin float64) float64 { return 20 * math.Log10(math.Max(1e-12, lin)) }

func TestCompressorBelowThresholdUnity(t *testing.T) {
	t.Parallel()

	c, err := NewCompressor(testRate)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.SetThreshold(-20); err != nil {
		t.Fatal(err)
	}
	if err := c.SetKnee(0); err != nil {
		t.Fatal(err)
	}

	// -40 dB is far below threshold; gain must be unity.
	if got := c.GainAt(dbToLin(-40)); got != 1 {
		t.Errorf("gain below threshold = %v, want 1", got)
	}
}

func TestCompressorStaticCurveRatio(t *testing.T) {
	t.Parallel()

	c, err := NewCompressor(testRate)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.SetThreshold(-20); err != nil {
		t.Fatal(err)
	}
	if err := c.SetRatio(4); err != nil {
		t.Fatal(err)
	}
	if err := c.SetKnee(0); err != nil {
		t.Fatal(err)
	}

	// 12 dB over threshold at 4:1 leaves 3 dB over: 9 dB reduction.
	in := dbToLin(-8)
	got := linToDB(in * c.GainAt(in))
	want := -20.0 + 12.0/4.0
	if math.Abs(got-want) > 0.1 {
		t.Errorf("output level = %.2f dB, want %.2f dB", got, want)
	}
}

func TestCompressorSoftKneeMonotone(t *testing.T) {
	t.Parallel()

	c, err := NewCompressor(testRate)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.SetThreshold(-20); err != nil {
		t.Fatal(err)
	}
	if err := c.SetKnee(12); err != nil {
		t.Fatal(err)
	}

	// Across the knee the gain decreases monotonically with level and the
	// output level never decreases.
	prevGain := 1.0
	prevOut := math.Inf(-1)
	for db := -32.0; db <= -8; db += 0.5 {
		in := dbToLin(db)
		g := c.GainAt(in)
		if g > prevGain+1e-12 {
			t.Fatalf("gain increased with level at %.1f dB: %v -> %v", db, prevGain, g)
		}
		out := linToDB(in * g)
		if out < prevOut-1e-9 {
			t.Fatalf("output level decreased with input level at %.1f dB", db)
		}
		prevGain, prevOut = g, out
	}
}

func TestCompressorEnvelopeAttackRelease(t *testing.T) {
	t.Parallel()

	c, err := NewCompressor(testRate)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.SetThreshold(-20); err != nil {
		t.Fatal(err)
	}
	if err := c.SetRatio(10); err != nil {
		t.Fatal(err)
	}
	if err := c.SetAttack(1); err != nil {
		t.Fatal(err)
	}
	if err := c.SetRelease(50); err != nil {
		t.Fatal(err)
	}

	// Loud step: output settles well below input.
	var settled float64
	for i := 0; i < 4410; i++ {
		settled = c.ProcessSample(1)
	}

	if settled > 0.2 {
		t.Errorf("settled output %v, want strong reduction", settled)
	}
}

func TestCompressorValidation(t *testing.T) {
	t.Parallel()

	c, err := NewCompressor(testRate)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.SetRatio(0.5); err == nil {
		t.Error("expected error for ratio < 1")
	}

	if err := c.SetKnee(-1); err == nil {
		t.Error("expected error for negative knee")
	}

	if err := c.SetAttack(0); err == nil {
		t.Error("expected error for zero attack")
	}

	if _, err := NewCompressor(0); err == nil {
		t.Error("expected error for zero sample rate")
	}
}

func TestLimiterNeverExceedsCeiling(t *testing.T) {
	t.Parallel()

	l, err := NewLimiter(testRate)
	if err != nil {
		t.Fatal(err)
	}

	if err := l.SetCeiling(-6); err != nil {
		t.Fatal(err)
	}

	ceiling := dbToLin(-6)

	// Hostile input: full-scale square bursts with silence between.
	for i := 0; i < 44100; i++ {
		x := 0.0
		if (i/400)%2 == 0 {
			x = 1.0
			if i%2 == 0 {
				x = -1.0
			}
		}

		y := l.ProcessSample(x)
		if math.Abs(y) > ceiling+1e-12 {
			t.Fatalf("sample %d: output %v exceeds ceiling %v", i, y, ceiling)
		}
	}
}

func TestLimiterPassesQuietSignal(t *testing.T) {
	t.Parallel()

	l, err := NewLimiter(testRate)
	if err != nil {
		t.Fatal(err)
	}

	if err := l.SetCeiling(0); err != nil {
		t.Fatal(err)
	}

	latency := l.Latency()

	// A signal below the ceiling passes unchanged, delayed by the window.
	in := make([]float64, 2000)
	for i := range in {
		in[i] = 0.25 * math.Sin(2*math.Pi*440*float64(i)/testRate)
	}

	var out []float64
	for _, x := range in {
		out = append(out, l.ProcessSample(x))
	}

	for i := latency; i < len(out); i++ {
		if math.Abs(out[i]-in[i-latency]) > 1e-9 {
			t.Fatalf("sample %d altered: got %v want %v", i, out[i], in[i-latency])
		}
	}
}

func TestLimiterRecovery(t *testing.T) {
	t.Parallel()

	l, err := NewLimiter(testRate)
	if err != nil {
		t.Fatal(err)
	}

	if err := l.SetCeiling(-6); err != nil {
		t.Fatal(err)
	}
	if err := l.SetRelease(10); err != nil {
		t.Fatal(err)
	}

	// Hit it with a loud burst, then feed quiet signal and verify gain
	// recovers toward unity.
	for i := 0; i < 1000; i++ {
		l.ProcessSample(1)
	}

	var last float64
	for i := 0; i < 44100; i++ {
		last = l.ProcessSample(0.1)
	}

	if math.Abs(last-0.1) > 1e-3 {
		t.Errorf("gain did not recover: output %v for input 0.1", last)
	}
}

func TestLimiterValidation(t *testing.T) {
	t.Parallel()

	l, err := NewLimiter(testRate)
	if err != nil {
		t.Fatal(err)
	}

	if err := l.SetCeiling(1); err == nil {
		t.Error("expected error for ceiling > 0 dB")
	}

	if err := l.SetRelease(0); err == nil {
		t.Error("expected error for release < 1 ms")
	}
}
