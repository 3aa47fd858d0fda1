package graph

import (
	"fmt"

	"github.com/cwbudde/algo-studio/effects/dynamics"
)

// compressorRuntime handles the "compressor" node kind with one
// processor per channel.
type compressorRuntime struct {
	left  *dynamics.Compressor
	right *dynamics.Compressor
}

func (r *compressorRuntime) Configure(_ Context, p Params) error {
	threshold := clamp(p.GetNum("threshold", -20), -60, 0)
	ratio := clamp(p.GetNum("ratio", 4), 1, 20)
	knee := clamp(p.GetNum("knee", 6), 0, 24)
	attack := clamp(p.GetNum("attack", 10), 0.1, 500)
	release := clamp(p.GetNum("release", 100), 1, 2000)

	for _, c := range []*dynamics.Compressor{r.left, r.right} {
		if err := c.SetThreshold(threshold); err != nil {
			return fmt.Errorf("graph: set compressor threshold: %w", err)
		}

		if err := c.SetRatio(ratio); err != nil {
			return fmt.Errorf("graph: set compressor ratio: %w", err)
		}

		if err := c.SetKnee(knee); err != nil {
			return fmt.Errorf("graph: set compressor knee: %w", err)
		}

		if err := c.SetAttack(attack); err != nil {
			return fmt.Errorf("graph: set compressor attack: %w", err)
		}

		if err := c.SetRelease(release); err != nil {
			return fmt.Errorf("graph: set compressor release: %w", err)
		}
	}

	return nil
}

func (r *compressorRuntime) Process(left, right []float64) {
	r.left.ProcessInPlace(left)
	r.right.ProcessInPlace(right)
}

// limiterRuntime handles the "limiter" node kind.
type limiterRuntime struct {
	left  *dynamics.Limiter
	right *dynamics.Limiter
}

func (r *limiterRuntime) Configure(_ Context, p Params) error {
	ceiling := clamp(p.GetNum("ceiling", -1), -24, 0)
	release := clamp(p.GetNum("release", 50), 1, 5000)

	for _, l := range []*dynamics.Limiter{r.left, r.right} {
		if err := l.SetCeiling(ceiling); err != nil {
			return fmt.Errorf("graph: set limiter ceiling: %w", err)
		}

		if err := l.SetRelease(release); err != nil {
			return fmt.Errorf("graph: set limiter release: %w", err)
		}
	}

	return nil
}

func (r *limiterRuntime) Process(left, right []float64) {
	r.left.ProcessInPlace(left)
	r.right.ProcessInPlace(right)
}
