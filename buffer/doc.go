// Package buffer provides the decoded audio buffer shared by sources,
// the graph runtime, and the offline renderer.
//
// Samples are stored planar (one float64 slice per channel) in [-1, 1].
// Interleaving happens only at container boundaries (decode and encode).
package buffer
