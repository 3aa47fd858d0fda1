package mp3

import (
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/cwbudde/algo-studio/buffer"
)

// go-mp3 always emits interleaved 16-bit little-endian stereo PCM.
const (
	decodedChannels  = 2
	bytesPerSample   = 2
	decodeChunkBytes = 16384
)

// Decode reads an entire MP3 stream and returns it as a stereo buffer.
func Decode(r io.Reader) (*buffer.Buffer, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: open stream: %w", err)
	}

	sampleRate := dec.SampleRate()
	if sampleRate <= 0 {
		return nil, fmt.Errorf("mp3: invalid sample rate %d", sampleRate)
	}

	var pcm []byte

	chunk := make([]byte, decodeChunkBytes)

	for {
		n, err := dec.Read(chunk)
		if n > 0 {
			pcm = append(pcm, chunk[:n]...)
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return nil, fmt.Errorf("mp3: read stream: %w", err)
		}

		if n == 0 {
			break
		}
	}

	samples := len(pcm) / bytesPerSample
	if samples == 0 {
		return nil, fmt.Errorf("mp3: stream contains no samples")
	}

	interleaved := make([]float64, samples)
	for i := range interleaved {
		v := int16(uint16(pcm[2*i]) | uint16(pcm[2*i+1])<<8)
		interleaved[i] = float64(v) / 32768
	}

	buf, err := buffer.FromInterleaved(interleaved, decodedChannels, float64(sampleRate))
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	return buf, nil
}
