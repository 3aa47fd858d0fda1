// Package wav decodes RIFF WAVE files into buffers and encodes buffers
// back to 16-bit little-endian PCM with a fixed canonical header
// layout.
package wav
