package effects

import (
	"math"
	"testing"
)

const testRate = 44100.0

func TestSoftClipPassesThroughInRange(t *testing.T) {
	t.Parallel()

	for _, x := range []float64{-1, -0.5, 0, 0.5, 1} {
		if got := SoftClip(x); got != x {
			t.Errorf("SoftClip(%v) = %v, want pass-through", x, got)
		}
	}
}

func TestSoftClipBoundsExcursions(t *testing.T) {
	t.Parallel()

	for _, x := range []float64{1.5, 3, 10, 1e6} {
		got := SoftClip(x)
		if got >= 1 || got <= 0 {
			t.Errorf("SoftClip(%v) = %v, want in (0, 1)", x, got)
		}

		neg := SoftClip(-x)
		if neg != -got {
			t.Errorf("SoftClip is not odd: f(%v)=%v, f(-%v)=%v", x, got, x, neg)
		}
	}
}

func TestTremoloDepthZeroIsIdentity(t *testing.T) {
	t.Parallel()

	tr, err := NewTremolo(testRate)
	if err != nil {
		t.Fatal(err)
	}

	if err := tr.SetDepth(0); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 100; i++ {
		x := math.Sin(float64(i) * 0.1)
		if got := tr.ProcessSample(x); math.Abs(got-x) > 1e-12 {
			t.Fatalf("sample %d: got %v want %v", i, got, x)
		}
	}
}

func TestTremoloModulatesAtRate(t *testing.T) {
	t.Parallel()

	tr, err := NewTremolo(testRate)
	if err != nil {
		t.Fatal(err)
	}

	if err := tr.SetRateHz(10); err != nil {
		t.Fatal(err)
	}
	if err := tr.SetDepth(1); err != nil {
		t.Fatal(err)
	}

	// Process DC input; the output should swing across [0, 1] once per cycle.
	period := int(testRate / 10)
	minOut, maxOut := math.Inf(1), math.Inf(-1)
	for i := 0; i < period; i++ {
		y := tr.ProcessSample(1)
		minOut = math.Min(minOut, y)
		maxOut = math.Max(maxOut, y)
	}

	if minOut > 0.01 || maxOut < 0.99 {
		t.Errorf("modulation swing [%v, %v], want about [0, 1]", minOut, maxOut)
	}
}

func TestTremoloValidation(t *testing.T) {
	t.Parallel()

	tr, err := NewTremolo(testRate)
	if err != nil {
		t.Fatal(err)
	}

	if err := tr.SetDepth(1.5); err == nil {
		t.Error("expected error for depth > 1")
	}

	if err := tr.SetRateHz(-1); err == nil {
		t.Error("expected error for negative rate")
	}
}

func TestDelayEchoTiming(t *testing.T) {
	t.Parallel()

	d, err := NewDelay(1000)
	if err != nil {
		t.Fatal(err)
	}

	if err := d.SetTime(0.1); err != nil { // 100 samples
		t.Fatal(err)
	}
	if err := d.SetFeedback(0); err != nil {
		t.Fatal(err)
	}
	if err := d.SetWet(1); err != nil {
		t.Fatal(err)
	}

	// Impulse comes out exactly delaySamples later at full wet.
	if got := d.ProcessSample(1); got != 0 {
		t.Fatalf("immediate output = %v, want 0", got)
	}

	for i := 1; i < 100; i++ {
		if got := d.ProcessSample(0); got != 0 {
			t.Fatalf("sample %d = %v, want 0", i, got)
		}
	}

	if got := d.ProcessSample(0); got != 1 {
		t.Fatalf("echo = %v, want 1", got)
	}
}

func TestDelayFeedbackDecays(t *testing.T) {
	t.Parallel()

	d, err := NewDelay(1000)
	if err != nil {
		t.Fatal(err)
	}

	if err := d.SetTime(0.05); err != nil {
		t.Fatal(err)
	}
	if err := d.SetFeedback(0.5); err != nil {
		t.Fatal(err)
	}
	if err := d.SetWet(1); err != nil {
		t.Fatal(err)
	}

	d.ProcessSample(1)

	var echoes []float64
	for i := 0; i < 300; i++ {
		if y := d.ProcessSample(0); y != 0 {
			echoes = append(echoes, y)
		}
	}

	if len(echoes) < 3 {
		t.Fatalf("expected repeated echoes, got %d", len(echoes))
	}

	for i := 1; i < 3; i++ {
		if math.Abs(echoes[i]-echoes[i-1]*0.5) > 1e-9 {
			t.Fatalf("echo %d = %v, want %v", i, echoes[i], echoes[i-1]*0.5)
		}
	}
}

func TestDelayZeroTimeIsIdentity(t *testing.T) {
	t.Parallel()

	d, err := NewDelay(testRate)
	if err != nil {
		t.Fatal(err)
	}

	if err := d.SetTime(0); err != nil {
		t.Fatal(err)
	}

	if got := d.ProcessSample(0.7); got != 0.7 {
		t.Errorf("got %v, want 0.7", got)
	}
}

func TestDelayParamRanges(t *testing.T) {
	t.Parallel()

	d, err := NewDelay(testRate)
	if err != nil {
		t.Fatal(err)
	}

	if err := d.SetTime(6); err == nil {
		t.Error("expected error for time > 5 s")
	}

	if err := d.SetFeedback(0.96); err == nil {
		t.Error("expected error for feedback > 0.95")
	}
}

func TestReverbTailDecay(t *testing.T) {
	t.Parallel()

	r, err := NewReverb(8000)
	if err != nil {
		t.Fatal(err)
	}

	if err := r.SetDecay(0.5); err != nil {
		t.Fatal(err)
	}
	if err := r.SetPreDelay(0); err != nil {
		t.Fatal(err)
	}
	if err := r.SetWet(1); err != nil {
		t.Fatal(err)
	}

	r.ProcessSample(1)

	// Energy over the first 100 ms vs the window one decay later.
	window := 800
	early := 0.0
	for i := 0; i < window; i++ {
		y := r.ProcessSample(0)
		early += y * y
	}

	for i := 0; i < 4000-window; i++ {
		r.ProcessSample(0)
	}

	late := 0.0
	for i := 0; i < window; i++ {
		y := r.ProcessSample(0)
		late += y * y
	}

	if early <= 0 {
		t.Fatal("no reverb tail produced")
	}

	if late >= early {
		t.Errorf("tail energy did not decay: early %v, late %v", early, late)
	}
}

func TestReverbPreDelayHoldsOffTail(t *testing.T) {
	t.Parallel()

	r, err := NewReverb(8000)
	if err != nil {
		t.Fatal(err)
	}

	if err := r.SetPreDelay(0.1); err != nil { // 800 samples
		t.Fatal(err)
	}
	if err := r.SetWet(1); err != nil {
		t.Fatal(err)
	}

	r.ProcessSample(1)

	// Nothing can emerge before the pre-delay has elapsed.
	for i := 0; i < 800; i++ {
		if y := r.ProcessSample(0); y != 0 {
			t.Fatalf("tail emerged at sample %d, before pre-delay elapsed", i)
		}
	}
}

func TestReverbSeedDeterminism(t *testing.T) {
	t.Parallel()

	render := func(seed uint64) []float64 {
		r, err := NewReverb(testRate, WithReverbSeed(seed))
		if err != nil {
			t.Fatal(err)
		}
		if err := r.SetWet(1); err != nil {
			t.Fatal(err)
		}

		out := make([]float64, 2000)
		r.ProcessSample(1)
		for i := range out {
			out[i] = r.ProcessSample(0)
		}
		return out
	}

	a := render(42)
	b := render(42)
	c := render(7)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at sample %d", i)
		}
	}

	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical tap networks")
	}
}
