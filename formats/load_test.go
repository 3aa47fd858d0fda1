package formats

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-studio/buffer"
	"github.com/cwbudde/algo-studio/formats/wav"
)

func encodeTestWAV(t *testing.T) []byte {
	t.Helper()

	planes := make([][]float64, 2)
	for ch := range planes {
		planes[ch] = make([]float64, 64)
		for i := range planes[ch] {
			planes[ch][i] = 0.5 * math.Sin(2*math.Pi*float64(i)/16)
		}
	}

	buf, err := buffer.FromPlanes(planes, 44100)
	if err != nil {
		t.Fatalf("FromPlanes: %v", err)
	}

	var out bytes.Buffer
	if err := wav.Encode(&out, buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	return out.Bytes()
}

func TestLoadEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := Load(nil)
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("Load(nil) = %v, want ErrEmptyInput", err)
	}

	_, err = Load([]byte{})
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("Load(empty) = %v, want ErrEmptyInput", err)
	}
}

func TestLoadSizeLimitPrecedesDecode(t *testing.T) {
	t.Parallel()

	// A valid WAV over the limit must be rejected by size, not decoded.
	data := encodeTestWAV(t)

	_, err := Load(data, WithSizeLimit(16))
	if !errors.Is(err, ErrSizeLimit) {
		t.Fatalf("Load(oversized) = %v, want ErrSizeLimit", err)
	}
}

func TestLoadSizeLimitValidation(t *testing.T) {
	t.Parallel()

	_, err := Load([]byte("x"), WithSizeLimit(0))
	if err == nil {
		t.Fatal("expected error for non-positive size limit")
	}
}

func TestSniff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		kind Kind
		ok   bool
	}{
		{"wav", append([]byte("RIFF\x00\x00\x00\x00WAVE"), 0), KindWAV, true},
		{"ogg", []byte("OggS rest of page"), KindVorbis, true},
		{"flac", []byte("fLaC rest of stream"), KindFLAC, true},
		{"mp3 id3", []byte("ID3\x04\x00"), KindMP3, true},
		{"mp3 sync", []byte{0xFF, 0xFB, 0x90, 0x00}, KindMP3, true},
		{"riff non-wave", []byte("RIFF\x00\x00\x00\x00AVI "), "", false},
		{"garbage", []byte("hello world"), "", false},
		{"short", []byte{0x00}, "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			kind, ok := Sniff(tc.data)
			if ok != tc.ok || kind != tc.kind {
				t.Fatalf("Sniff = (%q, %v), want (%q, %v)", kind, ok, tc.kind, tc.ok)
			}
		})
	}
}

func TestLoadUnsupportedContainer(t *testing.T) {
	t.Parallel()

	_, err := Load([]byte("this is not audio data at all"))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("Load(garbage) = %v, want ErrDecode", err)
	}
}

func TestLoadCorruptContainer(t *testing.T) {
	t.Parallel()

	// A valid WAV signature with a truncated body must fail with a
	// decode error, not a panic or a silent empty buffer.
	data := []byte("RIFF\xFF\xFF\xFF\xFFWAVEfmt ")

	_, err := Load(data)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("Load(truncated wav) = %v, want ErrDecode", err)
	}
}

func TestLoadValidWAV(t *testing.T) {
	t.Parallel()

	buf, err := Load(encodeTestWAV(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if buf.Channels() != 2 || buf.Frames() != 64 {
		t.Fatalf("loaded shape = (%d ch, %d frames), want (2, 64)", buf.Channels(), buf.Frames())
	}

	if buf.SampleRate() != 44100 {
		t.Fatalf("sample rate = %f, want 44100", buf.SampleRate())
	}
}
