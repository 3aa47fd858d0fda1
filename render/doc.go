// Package render renders an effect graph over a bound input buffer
// offline. The output is deterministic for a given recipe and input:
// stochastic components draw their seed from the recipe itself, so two
// renders with identical inputs are bit-identical.
package render
