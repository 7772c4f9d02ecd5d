package dynamics

import (
	"fmt"
	"math"
)

const (
	defaultCompThresholdDB = -24.0
	defaultCompRatio       = 4.0
	defaultCompAttackMs    = 5.0
	defaultCompReleaseMs   = 100.0

	minCompThresholdDB = -60.0
	maxCompThresholdDB = 0.0
	minCompRatio       = 1.0
	maxCompRatio       = 20.0

	// Peaks below this magnitude are treated as silence and pinned to
	// the dB floor instead of running off toward -inf.
	compSilenceFloor   = 1e-10
	compSilenceFloorDB = -120.0
)

// Compressor is a stereo-linked feed-forward compressor with a hard
// knee and independent one-pole attack/release smoothing of the gain
// reduction signal. A single envelope drives both channels.
//
// Not safe for concurrent use; the owning processor serializes access.
type Compressor struct {
	sampleRate float32

	thresholdDB  float32
	ratio        float32
	attackCoeff  float32
	releaseCoeff float32
	envelope     float32
	makeupGain   float32
}

// NewCompressor creates a compressor with the chain's defaults:
// -24 dB threshold, 4:1 ratio, 5 ms attack, 100 ms release, unity
// makeup gain.
func NewCompressor(sampleRate float32) (*Compressor, error) {
	sr := float64(sampleRate)
	if sr <= 0 || math.IsNaN(sr) || math.IsInf(sr, 0) {
		return nil, fmt.Errorf("compressor sample rate must be positive and finite: %f", sr)
	}

	c := &Compressor{
		sampleRate:  sampleRate,
		thresholdDB: defaultCompThresholdDB,
		ratio:       defaultCompRatio,
		makeupGain:  1.0,
	}
	c.updateCoeffs(defaultCompAttackMs, defaultCompReleaseMs)

	return c, nil
}

// Set updates threshold, ratio, and the attack/release time constants
// in one call. Threshold clamps to [-60, 0] dB, ratio to [1, 20].
func (c *Compressor) Set(thresholdDB, ratio, attackMs, releaseMs float32) {
	c.thresholdDB = clamp32(thresholdDB, minCompThresholdDB, maxCompThresholdDB)
	c.ratio = clamp32(ratio, minCompRatio, maxCompRatio)
	c.updateCoeffs(attackMs, releaseMs)
}

// SetMakeupGain sets makeup gain in dB, stored as a linear factor.
func (c *Compressor) SetMakeupGain(gainDB float32) {
	c.makeupGain = float32(math.Pow(10, float64(gainDB)/20))
}

// Threshold returns the clamped threshold in dB.
func (c *Compressor) Threshold() float32 { return c.thresholdDB }

// Ratio returns the clamped compression ratio.
func (c *Compressor) Ratio() float32 { return c.ratio }

// GainReductionDB returns the smoothed gain reduction currently applied,
// in dB. Zero means no reduction.
func (c *Compressor) GainReductionDB() float32 { return c.envelope }

// ProcessStereo compresses one sample pair. Peak detection takes
// max(|l|, |r|) so both channels receive identical gain.
func (c *Compressor) ProcessStereo(inL, inR float32) (outL, outR float32) {
	peak := abs32(inL)
	if r := abs32(inR); r > peak {
		peak = r
	}

	peakDB := float32(compSilenceFloorDB)
	if peak > compSilenceFloor {
		peakDB = float32(20 * math.Log10(float64(peak)))
	}

	// Hard-knee gain computer.
	var reduction float32
	if peakDB > c.thresholdDB {
		excess := peakDB - c.thresholdDB
		reduction = excess - excess/c.ratio
	}

	// Fast coefficient while reduction grows, slow while it decays.
	coeff := c.releaseCoeff
	if reduction > c.envelope {
		coeff = c.attackCoeff
	}
	c.envelope = reduction + coeff*(c.envelope-reduction)

	gain := float32(math.Pow(10, float64(-c.envelope)/20)) * c.makeupGain

	return inL * gain, inR * gain
}

// Reset clears the envelope follower.
func (c *Compressor) Reset() {
	c.envelope = 0
}

// updateCoeffs discretizes the attack and release times as one-pole
// coefficients: exp(-1 / (time_s * sample_rate)).
func (c *Compressor) updateCoeffs(attackMs, releaseMs float32) {
	sr := float64(c.sampleRate)
	c.attackCoeff = float32(math.Exp(-1 / (float64(attackMs) * 0.001 * sr)))
	c.releaseCoeff = float32(math.Exp(-1 / (float64(releaseMs) * 0.001 * sr)))
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}

	return v
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
