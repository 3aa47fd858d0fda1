package buffer

import (
	"math"
	"testing"
)

func TestNewGeometry(t *testing.T) {
	t.Parallel()

	b, err := New(2, 480, 48000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b.Channels() != 2 {
		t.Errorf("channels = %d, want 2", b.Channels())
	}

	if b.Frames() != 480 {
		t.Errorf("frames = %d, want 480", b.Frames())
	}

	if got := b.Duration(); math.Abs(got-0.01) > 1e-12 {
		t.Errorf("duration = %v, want 0.01", got)
	}
}

func TestNewInvalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		channels   int
		frames     int
		sampleRate float64
	}{
		{"zero channels", 0, 10, 44100},
		{"negative frames", 1, -1, 44100},
		{"zero rate", 1, 10, 0},
		{"nan rate", 1, 10, math.NaN()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := New(tc.channels, tc.frames, tc.sampleRate); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestInterleaveRoundTrip(t *testing.T) {
	t.Parallel()

	in := []float64{0.1, -0.1, 0.2, -0.2, 0.3, -0.3}

	b, err := FromInterleaved(in, 2, 44100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b.Frames() != 3 {
		t.Fatalf("frames = %d, want 3", b.Frames())
	}

	left := b.Channel(0)
	right := b.Channel(1)
	for i := 0; i < 3; i++ {
		if left[i] != in[2*i] || right[i] != in[2*i+1] {
			t.Fatalf("frame %d = (%v, %v), want (%v, %v)", i, left[i], right[i], in[2*i], in[2*i+1])
		}
	}

	out := b.Interleaved()
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("interleaved[%d] = %v, want %v", i, out[i], in[i])
		}
	}
}

func TestFromInterleavedRemainder(t *testing.T) {
	t.Parallel()

	if _, err := FromInterleaved([]float64{1, 2, 3}, 2, 44100); err == nil {
		t.Error("expected error for non-divisible sample count")
	}
}

func TestFromPlanesMismatch(t *testing.T) {
	t.Parallel()

	_, err := FromPlanes([][]float64{make([]float64, 4), make([]float64, 5)}, 44100)
	if err == nil {
		t.Error("expected error for mismatched plane lengths")
	}
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	b, err := FromInterleaved([]float64{0.5, -0.5}, 1, 8000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := b.Clone()
	c.Channel(0)[0] = 0

	if b.Channel(0)[0] != 0.5 {
		t.Error("clone shares backing storage with original")
	}
}
