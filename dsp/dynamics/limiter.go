package dynamics

import (
	"fmt"
	"math"
)

const (
	// Default ceiling just below 0 dBFS (-0.18 dB).
	defaultLimiterThreshold = 0.98
	// Per-sample multiplicative envelope decay.
	defaultLimiterRelease = 0.9995

	minLimiterThresholdDB = -12.0
	maxLimiterThresholdDB = 0.0
)

// Limiter is a stereo-linked brick-wall peak limiter with instant
// attack and exponential release. There is no look-ahead: the sample
// that first crosses the threshold is attenuated only by the gain
// computed on that same sample, so a single peak can briefly exceed
// the ceiling.
type Limiter struct {
	threshold    float32 // linear, (0, 1]
	releaseCoeff float32 // (0, 1)
	envelope     float32 // >= 0
}

// NewLimiter creates a limiter with a 0.98 linear ceiling and the
// default release constant, tuned for 48 kHz.
func NewLimiter(sampleRate float32) (*Limiter, error) {
	sr := float64(sampleRate)
	if sr <= 0 || math.IsNaN(sr) || math.IsInf(sr, 0) {
		return nil, fmt.Errorf("limiter sample rate must be positive and finite: %f", sr)
	}

	return &Limiter{
		threshold:    defaultLimiterThreshold,
		releaseCoeff: defaultLimiterRelease,
	}, nil
}

// SetThreshold sets the ceiling in dB, clamped to [-12, 0], stored
// internally as a linear value.
func (l *Limiter) SetThreshold(thresholdDB float32) {
	db := clamp32(thresholdDB, minLimiterThresholdDB, maxLimiterThresholdDB)
	l.threshold = float32(math.Pow(10, float64(db)/20))
}

// Threshold returns the linear ceiling.
func (l *Limiter) Threshold() float32 { return l.threshold }

// ProcessStereo limits one sample pair. The envelope jumps instantly
// to the target reduction when the linked peak exceeds the ceiling and
// decays multiplicatively on every call, including the attack sample.
func (l *Limiter) ProcessStereo(inL, inR float32) (outL, outR float32) {
	peak := abs32(inL)
	if r := abs32(inR); r > peak {
		peak = r
	}

	if peak > l.threshold {
		target := 1 - l.threshold/peak
		if target > l.envelope {
			l.envelope = target
		}
	}

	l.envelope *= l.releaseCoeff

	gain := 1 - l.envelope

	return inL * gain, inR * gain
}

// Reset clears the envelope.
func (l *Limiter) Reset() {
	l.envelope = 0
}
