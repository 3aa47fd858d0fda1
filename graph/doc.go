// Package graph implements the audio processing graph: a declarative
// recipe of typed nodes and connections compiled into a topologically
// ordered stereo processing chain.
//
// Recipes are JSON-serialisable. Every recipe must contain the reserved
// "_input" and "_output" nodes; audio enters at the input, flows along
// the connections in dependency order, and the block left at the output
// node becomes the chain result. Nodes with several inbound connections
// receive the average of their parents.
//
// A WetMixer routes the chain result against the unprocessed signal and
// implements click-free bypass with a short crossfade.
package graph
