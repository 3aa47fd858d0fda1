// Package mp3 decodes MPEG-1 Layer III streams into sample buffers.
package mp3
