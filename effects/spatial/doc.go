// Package spatial provides stereo-field processors: a mid/side stereo
// widener and an equal-power panner.
package spatial
