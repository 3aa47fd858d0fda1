package dynamics

import (
	"fmt"
	"math"
)

const (
	defaultCompressorThresholdDB = -20.0
	defaultCompressorRatio       = 4.0
	defaultCompressorKneeDB      = 6.0
	defaultCompressorAttackMs    = 10.0
	defaultCompressorReleaseMs   = 100.0

	minCompressorRatio = 1.0
	maxCompressorRatio = 100.0

	// log2(10)/20, for converting dB to the log2 domain.
	log2Of10Div20 = 0.166096404744
)

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Compressor is a feed-forward downward compressor with a quadratic soft
// knee computed in the log2 domain. It is mono; the graph runtime
// instantiates one per channel.
type Compressor struct {
	thresholdDB float64
	ratio       float64
	kneeDB      float64
	attackMs    float64
	releaseMs   float64

	sampleRate float64

	peakLevel float64

	attackCoeff   float64
	releaseCoeff  float64
	thresholdLog2 float64
	kneeLog2      float64
	invKneeLog2   float64
}

// NewCompressor creates a soft-knee compressor with practical defaults:
// threshold -20 dB, ratio 4:1, knee 6 dB, attack 10 ms, release 100 ms.
func NewCompressor(sampleRate float64) (*Compressor, error) {
	if sampleRate <= 0 || !isFinite(sampleRate) {
		return nil, fmt.Errorf("compressor sample rate must be > 0 and finite: %f", sampleRate)
	}

	c := &Compressor{
		thresholdDB: defaultCompressorThresholdDB,
		ratio:       defaultCompressorRatio,
		kneeDB:      defaultCompressorKneeDB,
		attackMs:    defaultCompressorAttackMs,
		releaseMs:   defaultCompressorReleaseMs,
		sampleRate:  sampleRate,
	}
	c.updateCoefficients()

	return c, nil
}

// SetThreshold sets the compression threshold in dB.
func (c *Compressor) SetThreshold(dB float64) error {
	if !isFinite(dB) {
		return fmt.Errorf("compressor threshold must be finite: %f", dB)
	}
	c.thresholdDB = dB
	c.updateCoefficients()
	return nil
}

// SetRatio sets the compression ratio in [1, 100].
func (c *Compressor) SetRatio(ratio float64) error {
	if ratio < minCompressorRatio || ratio > maxCompressorRatio || !isFinite(ratio) {
		return fmt.Errorf("compressor ratio must be in [%g, %g]: %f",
			minCompressorRatio, maxCompressorRatio, ratio)
	}
	c.ratio = ratio
	return nil
}

// SetKnee sets the soft-knee width in dB. 0 selects a hard knee.
func (c *Compressor) SetKnee(kneeDB float64) error {
	if kneeDB < 0 || !isFinite(kneeDB) {
		return fmt.Errorf("compressor knee must be >= 0 and finite: %f", kneeDB)
	}
	c.kneeDB = kneeDB
	c.updateCoefficients()
	return nil
}

// SetAttack sets the attack time in milliseconds.
func (c *Compressor) SetAttack(ms float64) error {
	if ms <= 0 || !isFinite(ms) {
		return fmt.Errorf("compressor attack must be > 0 and finite: %f", ms)
	}
	c.attackMs = ms
	c.updateCoefficients()
	return nil
}

// SetRelease sets the release time in milliseconds.
func (c *Compressor) SetRelease(ms float64) error {
	if ms <= 0 || !isFinite(ms) {
		return fmt.Errorf("compressor release must be > 0 and finite: %f", ms)
	}
	c.releaseMs = ms
	c.updateCoefficients()
	return nil
}

// Threshold returns the threshold in dB.
func (c *Compressor) Threshold() float64 { return c.thresholdDB }

// Ratio returns the compression ratio.
func (c *Compressor) Ratio() float64 { return c.ratio }

// Knee returns the knee width in dB.
func (c *Compressor) Knee() float64 { return c.kneeDB }

// Attack returns the attack time in milliseconds.
func (c *Compressor) Attack() float64 { return c.attackMs }

// Release returns the release time in milliseconds.
func (c *Compressor) Release() float64 { return c.releaseMs }

// Reset clears the envelope follower.
func (c *Compressor) Reset() {
	c.peakLevel = 0
}

// ProcessSample compresses one sample.
func (c *Compressor) ProcessSample(input float64) float64 {
	level := math.Abs(input)

	if level > c.peakLevel {
		c.peakLevel += (level - c.peakLevel) * c.attackCoeff
	} else {
		c.peakLevel *= c.releaseCoeff
	}

	return input * c.gainFor(c.peakLevel)
}

// ProcessInPlace compresses buf in place.
func (c *Compressor) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = c.ProcessSample(buf[i])
	}
}

// GainAt returns the static-curve gain multiplier for a given input
// magnitude, bypassing the envelope follower. Exposed for metering.
func (c *Compressor) GainAt(magnitude float64) float64 {
	return c.gainFor(magnitude)
}

func (c *Compressor) updateCoefficients() {
	c.thresholdLog2 = c.thresholdDB * log2Of10Div20
	c.kneeLog2 = c.kneeDB * log2Of10Div20
	if c.kneeDB > 0 {
		c.invKneeLog2 = 1 / c.kneeLog2
	} else {
		c.invKneeLog2 = 0
	}

	c.attackCoeff = 1 - math.Exp(-math.Ln2/(c.attackMs*0.001*c.sampleRate))
	c.releaseCoeff = math.Exp(-math.Ln2 / (c.releaseMs * 0.001 * c.sampleRate))
}

// gainFor computes the gain multiplier for a detector level using the
// quadratic soft-knee characteristic in the log2 domain.
func (c *Compressor) gainFor(peakLevel float64) float64 {
	if peakLevel <= 0 {
		return 1
	}

	overshoot := math.Log2(peakLevel) - c.thresholdLog2

	if c.kneeDB <= 0 {
		if overshoot <= 0 {
			return 1
		}
		return math.Exp2(-overshoot * (1 - 1/c.ratio))
	}

	halfKnee := c.kneeLog2 * 0.5

	var effective float64
	switch {
	case overshoot < -halfKnee:
		return 1
	case overshoot > halfKnee:
		effective = overshoot
	default:
		s := overshoot + halfKnee
		effective = s * s * 0.5 * c.invKneeLog2
	}

	return math.Exp2(-effective * (1 - 1/c.ratio))
}
