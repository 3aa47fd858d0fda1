package wav

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/algo-studio/buffer"
)

const headerSize = 44

// Encode serialises a buffer to a canonical 16-bit little-endian PCM
// RIFF WAVE stream: a 44-byte header followed by channel-interleaved
// frames. Samples are clamped to [-1, 1] and scaled asymmetrically
// (negative by 32768, non-negative by 32767) so both rails are
// reachable.
func Encode(w io.Writer, buf *buffer.Buffer) error {
	if buf == nil || buf.Channels() == 0 {
		return fmt.Errorf("%w: nil or empty buffer", ErrEncode)
	}

	channels := buf.Channels()
	frames := buf.Frames()
	sampleRate := int(buf.SampleRate())

	if sampleRate <= 0 {
		return fmt.Errorf("%w: invalid sample rate %f", ErrEncode, buf.SampleRate())
	}

	dataSize := frames * channels * 2

	header := make([]byte, headerSize)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataSize))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(sampleRate*channels*2))
	binary.LittleEndian.PutUint16(header[32:34], uint16(channels*2))
	binary.LittleEndian.PutUint16(header[34:36], 16)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataSize))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("%w: write header: %w", ErrEncode, err)
	}

	out := make([]byte, dataSize)
	pos := 0

	for frame := 0; frame < frames; frame++ {
		for ch := 0; ch < channels; ch++ {
			binary.LittleEndian.PutUint16(out[pos:pos+2], uint16(quantize(buf.Channel(ch)[frame])))
			pos += 2
		}
	}

	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("%w: write samples: %w", ErrEncode, err)
	}

	return nil
}

// quantize clamps a sample to [-1, 1] and maps it to a signed 16-bit
// value with the asymmetric scale. Rounding keeps decode-then-encode
// byte-exact for 16-bit sources.
func quantize(s float64) int16 {
	if s < -1 {
		s = -1
	}
	if s > 1 {
		s = 1
	}

	if s < 0 {
		return int16(math.Round(s * 32768))
	}

	return int16(math.Round(s * 32767))
}
