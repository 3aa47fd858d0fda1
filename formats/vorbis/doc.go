// Package vorbis decodes Ogg Vorbis streams into sample buffers.
package vorbis
