// Package studio holds the declarative recipe registry behind each
// interactive studio: the effect graph, its default preset, the
// per-parameter range table, and the small sequencing helpers (drum
// sampler mapping, step sequencer, metronome) the rhythm studios share.
package studio
