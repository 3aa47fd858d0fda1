package engine

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-studio/buffer"
	"github.com/cwbudde/algo-studio/formats"
	"github.com/cwbudde/algo-studio/formats/wav"
	"github.com/cwbudde/algo-studio/graph"
	"github.com/cwbudde/algo-studio/internal/testutil"
	"github.com/cwbudde/algo-studio/source"
)

func newTestSession(t *testing.T) (*Session, *NullOutput) {
	t.Helper()

	out := &NullOutput{Rate: 48000}

	s, err := NewSession(nil, func(RenderFunc) (Output, error) {
		return out, nil
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	return s, out
}

func gainRecipe(gain float64) graph.Recipe {
	return graph.Recipe{
		Nodes: []graph.NodeSpec{
			{ID: graph.InputNodeID, Kind: "input"},
			{ID: "vol", Kind: "gain", Params: map[string]any{"gain": gain}},
			{ID: graph.OutputNodeID, Kind: "output"},
		},
		Connections: []graph.Connection{
			{From: graph.InputNodeID, To: "vol"},
			{From: "vol", To: graph.OutputNodeID},
		},
	}
}

func TestSessionPlayRequiresRunningGate(t *testing.T) {
	t.Parallel()

	s, out := newTestSession(t)
	s.Bind(testutil.StereoSine(440, 48000, 0.5, 4800))

	err := s.Play()
	if !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Play before resume: got %v, want ErrNotRunning", err)
	}

	if s.PlayerState() != source.StateLoaded {
		t.Fatalf("player state = %s, want loaded", s.PlayerState())
	}

	if err := s.Resume(context.Background()); err != nil {
		t.Fatalf("Resume: %v", err)
	}

	if !out.Started() {
		t.Fatal("resume did not start the output backend")
	}

	if err := s.Play(); err != nil {
		t.Fatalf("Play after resume: %v", err)
	}

	if s.PlayerState() != source.StatePlaying {
		t.Fatalf("player state = %s, want playing", s.PlayerState())
	}
}

func TestSessionRenderAppliesGraph(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t)

	buf, err := bufferOfOnes(4800)
	if err != nil {
		t.Fatalf("test buffer: %v", err)
	}

	s.Bind(buf)

	if err := s.LoadRecipe(gainRecipe(0.5)); err != nil {
		t.Fatalf("LoadRecipe: %v", err)
	}

	if err := s.Resume(context.Background()); err != nil {
		t.Fatalf("Resume: %v", err)
	}

	if err := s.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}

	left := make([]float64, 256)
	right := make([]float64, 256)
	s.RenderBlock(left, right)

	for i := range left {
		if math.Abs(left[i]-0.5) > 1e-9 || math.Abs(right[i]-0.5) > 1e-9 {
			t.Fatalf("sample %d: got (%g, %g), want (0.5, 0.5)", i, left[i], right[i])
		}
	}
}

func TestSessionRenderSilentWhenStopped(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t)
	s.Bind(testutil.StereoSine(440, 48000, 0.5, 4800))

	left := make([]float64, 128)
	right := make([]float64, 128)
	for i := range left {
		left[i] = 1
		right[i] = 1
	}

	s.RenderBlock(left, right)

	for i := range left {
		if left[i] != 0 || right[i] != 0 {
			t.Fatalf("sample %d not silent before play: (%g, %g)", i, left[i], right[i])
		}
	}
}

func TestSessionLoadDecodesContainer(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t)

	var b bytes.Buffer
	if err := wav.Encode(&b, testutil.StereoSine(440, 44100, 0.5, 441)); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	if err := s.Load(b.Bytes()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if s.PlayerState() != source.StateLoaded {
		t.Fatalf("player state = %s, want loaded", s.PlayerState())
	}
}

func TestSessionLoadFailureReturnsToIdle(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t)

	err := s.Load(nil)
	if !errors.Is(err, formats.ErrEmptyInput) {
		t.Fatalf("Load(nil): got %v, want ErrEmptyInput", err)
	}

	if s.PlayerState() != source.StateIdle {
		t.Fatalf("player state = %s, want idle", s.PlayerState())
	}
}

func TestSessionBypassParksPlaybackRate(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t)

	if err := s.SetRate(0.75); err != nil {
		t.Fatalf("SetRate: %v", err)
	}

	s.SetBypassed(true)

	if !s.Bypassed() {
		t.Fatal("bypass not engaged")
	}

	if s.Rate() != 1 {
		t.Fatalf("bypassed rate = %g, want 1", s.Rate())
	}

	// Rate writes while bypassed take effect once bypass disengages.
	if err := s.SetRate(2); err != nil {
		t.Fatalf("SetRate while bypassed: %v", err)
	}

	if s.Rate() != 1 {
		t.Fatalf("rate moved while bypassed: %g", s.Rate())
	}

	s.SetBypassed(false)

	if s.Rate() != 2 {
		t.Fatalf("restored rate = %g, want 2", s.Rate())
	}
}

func TestSessionStopReleasesToLoaded(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t)
	s.Bind(testutil.StereoSine(440, 48000, 0.5, 48000))

	if err := s.Resume(context.Background()); err != nil {
		t.Fatalf("Resume: %v", err)
	}

	if err := s.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}

	s.Stop()

	// The release ramp lasts a few milliseconds; one generous block
	// carries it to completion.
	left := make([]float64, 1024)
	right := make([]float64, 1024)
	s.RenderBlock(left, right)

	if s.PlayerState() != source.StateLoaded {
		t.Fatalf("player state = %s, want loaded", s.PlayerState())
	}
}

func TestNewSessionValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewSession(nil, nil); err == nil {
		t.Fatal("nil open func should fail")
	}

	_, err := NewSession(nil, func(RenderFunc) (Output, error) {
		return nil, nil
	})
	if err == nil {
		t.Fatal("nil output should fail")
	}
}

func bufferOfOnes(frames int) (*buffer.Buffer, error) {
	plane := testutil.DC(1, frames)

	return buffer.FromPlanes([][]float64{plane, append([]float64(nil), plane...)}, 48000)
}
