package graph

import "math"

// Params holds the parsed parameters for a single graph node.
type Params struct {
	ID       string
	Kind     string
	Bypassed bool
	Num      map[string]float64
	Str      map[string]string
}

// GetNum safely extracts a numeric parameter, returning def if missing
// or non-finite.
func (p Params) GetNum(key string, def float64) float64 {
	if p.Num == nil {
		return def
	}

	v, ok := p.Num[key]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}

	return v
}

// GetStr safely extracts a string parameter, returning def if missing.
func (p Params) GetStr(key, def string) string {
	if p.Str == nil {
		return def
	}

	v, ok := p.Str[key]
	if !ok || v == "" {
		return def
	}

	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
