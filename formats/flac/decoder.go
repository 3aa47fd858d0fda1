package flac

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/mewkiz/flac"

	"github.com/cwbudde/algo-studio/buffer"
)

// Decode reads an entire FLAC stream and returns its samples scaled to
// [-1, 1] by the stream's bit depth.
func Decode(r io.Reader) (*buffer.Buffer, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("flac: open stream: %w", err)
	}

	info := stream.Info
	if info == nil || info.NChannels == 0 || info.SampleRate == 0 {
		return nil, fmt.Errorf("flac: missing stream info")
	}

	channels := int(info.NChannels)
	scale := 1.0 / math.Pow(2, float64(info.BitsPerSample)-1)

	planes := make([][]float64, channels)

	for {
		fr, err := stream.ParseNext()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return nil, fmt.Errorf("flac: parse frame: %w", err)
		}

		if len(fr.Subframes) != channels {
			return nil, fmt.Errorf("flac: frame has %d subframes, expected %d", len(fr.Subframes), channels)
		}

		for ch, sub := range fr.Subframes {
			for _, s := range sub.Samples {
				planes[ch] = append(planes[ch], float64(s)*scale)
			}
		}
	}

	if len(planes[0]) == 0 {
		return nil, fmt.Errorf("flac: stream contains no samples")
	}

	buf, err := buffer.FromPlanes(planes, float64(info.SampleRate))
	if err != nil {
		return nil, fmt.Errorf("flac: %w", err)
	}

	return buf, nil
}
