// Package interp provides fractional-position interpolation primitives used
// by delay lines, the chorus, and the offline resampler.
//
// Available methods, from cheapest to highest quality:
//
//   - [Linear2]:  2-point linear interpolation
//   - [Hermite4]: 4-point cubic Hermite (good default for modulated delays)
package interp
