// Package flac decodes FLAC streams into sample buffers.
package flac
