package formats

import (
	"bytes"
	"fmt"

	"github.com/cwbudde/algo-studio/buffer"
	"github.com/cwbudde/algo-studio/formats/flac"
	"github.com/cwbudde/algo-studio/formats/mp3"
	"github.com/cwbudde/algo-studio/formats/vorbis"
	"github.com/cwbudde/algo-studio/formats/wav"
)

// DefaultSizeLimit is the maximum input size accepted by Load unless
// overridden.
const DefaultSizeLimit = 50 << 20 // 50 MiB

// Kind identifies a sniffed container.
type Kind string

const (
	KindWAV    Kind = "wav"
	KindMP3    Kind = "mp3"
	KindVorbis Kind = "ogg"
	KindFLAC   Kind = "flac"
)

// Option configures Load.
type Option func(*loadConfig) error

type loadConfig struct {
	sizeLimit int
}

// WithSizeLimit overrides the input size gate in bytes.
func WithSizeLimit(limit int) Option {
	return func(cfg *loadConfig) error {
		if limit <= 0 {
			return fmt.Errorf("formats: size limit must be > 0: %d", limit)
		}

		cfg.sizeLimit = limit

		return nil
	}
}

// Sniff identifies the container from the leading bytes. It returns
// false when no supported container matches.
func Sniff(data []byte) (Kind, bool) {
	switch {
	case len(data) >= 12 &&
		bytes.HasPrefix(data, []byte("RIFF")) &&
		bytes.Equal(data[8:12], []byte("WAVE")):
		return KindWAV, true

	case bytes.HasPrefix(data, []byte("OggS")):
		return KindVorbis, true

	case bytes.HasPrefix(data, []byte("fLaC")):
		return KindFLAC, true

	case bytes.HasPrefix(data, []byte("ID3")):
		return KindMP3, true

	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		// Raw MPEG frame sync.
		return KindMP3, true

	default:
		return "", false
	}
}

// Load gates, sniffs, and decodes a compressed container into a
// buffer. Zero bytes yield ErrEmptyInput and oversized inputs yield
// ErrSizeLimit before any decode work. Unsupported containers and
// codec failures yield errors wrapping ErrDecode.
func Load(data []byte, opts ...Option) (*buffer.Buffer, error) {
	cfg := loadConfig{sizeLimit: DefaultSizeLimit}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	if len(data) > cfg.sizeLimit {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrSizeLimit, len(data), cfg.sizeLimit)
	}

	kind, ok := Sniff(data)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported container", ErrDecode)
	}

	var (
		buf *buffer.Buffer
		err error
	)

	switch kind {
	case KindWAV:
		buf, err = wav.Decode(bytes.NewReader(data))
	case KindMP3:
		buf, err = mp3.Decode(bytes.NewReader(data))
	case KindVorbis:
		buf, err = vorbis.Decode(bytes.NewReader(data))
	case KindFLAC:
		buf, err = flac.Decode(bytes.NewReader(data))
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, kind, err)
	}

	return buf, nil
}
