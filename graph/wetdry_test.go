package graph

import (
	"math"
	"testing"
)

func TestSmootherApproachesTarget(t *testing.T) {
	t.Parallel()

	s, err := NewSmoother(48000, DefaultSmoothingTau)
	if err != nil {
		t.Fatalf("NewSmoother failed: %v", err)
	}

	s.SetTarget(1)

	// After five time constants the value should be within 1% of target.
	n := int(5 * DefaultSmoothingTau * 48000)
	var v float64
	for i := 0; i < n; i++ {
		v = s.Next()
	}

	if math.Abs(v-1) > 0.01 {
		t.Fatalf("after 5 tau: got %f, want about 1", v)
	}
}

func TestSmootherMonotonicRise(t *testing.T) {
	t.Parallel()

	s, err := NewSmoother(48000, DefaultSmoothingTau)
	if err != nil {
		t.Fatalf("NewSmoother failed: %v", err)
	}

	s.SetTarget(1)

	prev := 0.0
	for i := 0; i < 2000; i++ {
		v := s.Next()
		if v < prev {
			t.Fatalf("sample %d: value decreased during rise: %f < %f", i, v, prev)
		}
		if v > 1 {
			t.Fatalf("sample %d: overshoot: %f", i, v)
		}

		prev = v
	}
}

func TestSmootherZeroTauSnaps(t *testing.T) {
	t.Parallel()

	s, err := NewSmoother(48000, 0)
	if err != nil {
		t.Fatalf("NewSmoother failed: %v", err)
	}

	s.SetTarget(0.7)
	if got := s.Next(); got != 0.7 {
		t.Fatalf("zero tau should snap on the next sample: got %f", got)
	}
}

func TestSmootherSnap(t *testing.T) {
	t.Parallel()

	s, err := NewSmoother(48000, DefaultSmoothingTau)
	if err != nil {
		t.Fatalf("NewSmoother failed: %v", err)
	}

	s.Snap(0.3)
	if s.Value() != 0.3 || !s.Settled() {
		t.Fatalf("Snap should settle immediately: value=%f", s.Value())
	}
}

func TestSmootherValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewSmoother(0, DefaultSmoothingTau); err == nil {
		t.Fatal("zero sample rate should fail")
	}

	if _, err := NewSmoother(48000, -1); err == nil {
		t.Fatal("negative tau should fail")
	}

	if _, err := NewSmoother(48000, math.NaN()); err == nil {
		t.Fatal("NaN tau should fail")
	}
}

func TestWetMixerFullyWetByDefault(t *testing.T) {
	t.Parallel()

	m, err := NewWetMixer(48000)
	if err != nil {
		t.Fatalf("NewWetMixer failed: %v", err)
	}

	dryL := []float64{1, 1}
	dryR := []float64{1, 1}
	wetL := []float64{0, 0}
	wetR := []float64{0, 0}

	if err := m.ProcessStereo(dryL, dryR, wetL, wetR); err != nil {
		t.Fatalf("ProcessStereo failed: %v", err)
	}

	if math.Abs(dryL[0]) > 1e-9 {
		t.Fatalf("fully wet mixer should suppress the dry path: %f", dryL[0])
	}
}

func TestWetMixerBypassCrossfadeMonotonic(t *testing.T) {
	t.Parallel()

	const sampleRate = 48000.0

	m, err := NewWetMixer(sampleRate)
	if err != nil {
		t.Fatalf("NewWetMixer failed: %v", err)
	}

	// Dry carries 0, wet carries 1; the output tracks the wet gain.
	m.SetBypassed(true)

	n := int(sampleRate * 0.1)
	prev := math.Inf(1)
	for i := 0; i < n; i++ {
		dryL := []float64{0}
		dryR := []float64{0}
		wetL := []float64{1}
		wetR := []float64{1}

		if err := m.ProcessStereo(dryL, dryR, wetL, wetR); err != nil {
			t.Fatalf("ProcessStereo failed: %v", err)
		}

		if dryL[0] > prev+1e-12 {
			t.Fatalf("sample %d: crossfade not monotonic: %f > %f", i, dryL[0], prev)
		}

		if dryL[0] < 0 || dryL[0] > 1 {
			t.Fatalf("sample %d: gain out of range: %f", i, dryL[0])
		}

		prev = dryL[0]
	}

	if prev > 0.01 {
		t.Fatalf("bypass crossfade did not settle near zero: %f", prev)
	}
}

func TestWetMixerBypassRestores(t *testing.T) {
	t.Parallel()

	m, err := NewWetMixer(48000)
	if err != nil {
		t.Fatalf("NewWetMixer failed: %v", err)
	}

	if err := m.SetWet(0.85); err != nil {
		t.Fatalf("SetWet failed: %v", err)
	}

	m.SetBypassed(true)
	m.Snap()
	m.SetBypassed(false)
	m.Snap()

	dryL := []float64{0}
	dryR := []float64{0}
	wetL := []float64{1}
	wetR := []float64{1}

	if err := m.ProcessStereo(dryL, dryR, wetL, wetR); err != nil {
		t.Fatalf("ProcessStereo failed: %v", err)
	}

	if math.Abs(dryL[0]-0.85) > 1e-6 {
		t.Fatalf("disengaging bypass should restore the wet amount: got %f, want 0.85", dryL[0])
	}
}

func TestWetMixerComplementaryGains(t *testing.T) {
	t.Parallel()

	m, err := NewWetMixer(48000)
	if err != nil {
		t.Fatalf("NewWetMixer failed: %v", err)
	}

	if err := m.SetWet(0.6); err != nil {
		t.Fatalf("SetWet failed: %v", err)
	}
	m.Snap()

	// With dry = wet = 1 the mix must stay exactly 1 regardless of the
	// crossfade position: the gains are complementary.
	for i := 0; i < 1000; i++ {
		dryL := []float64{1}
		dryR := []float64{1}
		wetL := []float64{1}
		wetR := []float64{1}

		if err := m.ProcessStereo(dryL, dryR, wetL, wetR); err != nil {
			t.Fatalf("ProcessStereo failed: %v", err)
		}

		if math.Abs(dryL[0]-1) > 1e-9 {
			t.Fatalf("sample %d: complementary gains violated: %f", i, dryL[0])
		}
	}
}

func TestWetMixerValidation(t *testing.T) {
	t.Parallel()

	m, err := NewWetMixer(48000)
	if err != nil {
		t.Fatalf("NewWetMixer failed: %v", err)
	}

	for _, wet := range []float64{-0.1, 1.1, math.NaN()} {
		if err := m.SetWet(wet); err == nil {
			t.Fatalf("SetWet(%f) should fail", wet)
		}
	}

	if err := m.ProcessStereo(make([]float64, 2), make([]float64, 2), make([]float64, 3), make([]float64, 2)); err == nil {
		t.Fatal("mismatched buffer lengths should fail")
	}
}
