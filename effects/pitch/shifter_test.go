package pitch

import (
	"math"
	"testing"
)

func zeroCrossings(x []float64) int {
	count := 0
	for i := 1; i < len(x); i++ {
		if (x[i-1] < 0 && x[i] >= 0) || (x[i-1] >= 0 && x[i] < 0) {
			count++
		}
	}

	return count
}

func TestShifterZeroSemitonesIsTransparent(t *testing.T) {
	t.Parallel()

	s, err := NewShifter(48000)
	if err != nil {
		t.Fatalf("NewShifter failed: %v", err)
	}

	for i := 0; i < 1024; i++ {
		in := math.Sin(2 * math.Pi * 440 * float64(i) / 48000)
		out := s.ProcessSample(in)
		if out != in {
			t.Fatalf("sample %d: zero shift not transparent: in=%f out=%f", i, in, out)
		}
	}
}

func TestShifterOctaveUpDoublesFrequency(t *testing.T) {
	t.Parallel()

	const (
		sampleRate = 48000.0
		freq       = 220.0
	)

	s, err := NewShifter(sampleRate)
	if err != nil {
		t.Fatalf("NewShifter failed: %v", err)
	}

	if err := s.SetSemitones(12); err != nil {
		t.Fatalf("SetSemitones failed: %v", err)
	}

	n := int(sampleRate) // one second
	out := make([]float64, n)
	for i := range out {
		out[i] = s.ProcessSample(math.Sin(2 * math.Pi * freq * float64(i) / sampleRate))
	}

	// Skip the first window while the delay line fills.
	steady := out[int(sampleRate*0.2):]
	got := float64(zeroCrossings(steady)) / 2 / (float64(len(steady)) / sampleRate)

	want := freq * 2
	if math.Abs(got-want) > want*0.1 {
		t.Fatalf("octave up: measured %.1f Hz, want about %.1f Hz", got, want)
	}
}

func TestShifterOctaveDownHalvesFrequency(t *testing.T) {
	t.Parallel()

	const (
		sampleRate = 48000.0
		freq       = 440.0
	)

	s, err := NewShifter(sampleRate)
	if err != nil {
		t.Fatalf("NewShifter failed: %v", err)
	}

	if err := s.SetSemitones(-12); err != nil {
		t.Fatalf("SetSemitones failed: %v", err)
	}

	n := int(sampleRate)
	out := make([]float64, n)
	for i := range out {
		out[i] = s.ProcessSample(math.Sin(2 * math.Pi * freq * float64(i) / sampleRate))
	}

	steady := out[int(sampleRate*0.2):]
	got := float64(zeroCrossings(steady)) / 2 / (float64(len(steady)) / sampleRate)

	want := freq / 2
	if math.Abs(got-want) > want*0.15 {
		t.Fatalf("octave down: measured %.1f Hz, want about %.1f Hz", got, want)
	}
}

func TestShifterOutputBounded(t *testing.T) {
	t.Parallel()

	s, err := NewShifter(48000)
	if err != nil {
		t.Fatalf("NewShifter failed: %v", err)
	}

	if err := s.SetSemitones(7); err != nil {
		t.Fatalf("SetSemitones failed: %v", err)
	}
	if err := s.SetWindowSeconds(0.05); err != nil {
		t.Fatalf("SetWindowSeconds failed: %v", err)
	}

	for i := 0; i < 48000; i++ {
		out := s.ProcessSample(math.Sin(2 * math.Pi * 330 * float64(i) / 48000))
		if math.Abs(out) > 2.0 {
			t.Fatalf("sample %d: output out of bounds: %f", i, out)
		}
	}
}

func TestShifterValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewShifter(0); err == nil {
		t.Fatal("NewShifter(0) should fail")
	}
	if _, err := NewShifter(math.NaN()); err == nil {
		t.Fatal("NewShifter(NaN) should fail")
	}

	s, err := NewShifter(48000)
	if err != nil {
		t.Fatalf("NewShifter failed: %v", err)
	}

	for _, st := range []float64{-12.5, 12.5, math.NaN(), math.Inf(1)} {
		if err := s.SetSemitones(st); err == nil {
			t.Fatalf("SetSemitones(%f) should fail", st)
		}
	}

	for _, w := range []float64{0.005, 0.6, math.NaN()} {
		if err := s.SetWindowSeconds(w); err == nil {
			t.Fatalf("SetWindowSeconds(%f) should fail", w)
		}
	}
}

func TestShifterRatio(t *testing.T) {
	t.Parallel()

	s, err := NewShifter(48000)
	if err != nil {
		t.Fatalf("NewShifter failed: %v", err)
	}

	if err := s.SetSemitones(12); err != nil {
		t.Fatalf("SetSemitones failed: %v", err)
	}
	if math.Abs(s.Ratio()-2.0) > 1e-12 {
		t.Fatalf("+12 semitones should be ratio 2: got %f", s.Ratio())
	}

	if err := s.SetSemitones(-12); err != nil {
		t.Fatalf("SetSemitones failed: %v", err)
	}
	if math.Abs(s.Ratio()-0.5) > 1e-12 {
		t.Fatalf("-12 semitones should be ratio 0.5: got %f", s.Ratio())
	}
}
