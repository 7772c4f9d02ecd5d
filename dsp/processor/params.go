package processor

import (
	"math"

	"github.com/ravraudio/dspcore/dsp/eq"
)

// Parameter clamp ranges of the host-facing setter surface.
const (
	minEQLowFreq  = 20.0
	maxEQLowFreq  = 500.0
	minEQMidFreq  = 200.0
	maxEQMidFreq  = 8000.0
	minEQHighFreq = 2000.0
	maxEQHighFreq = 20000.0
	minEQMidQ     = 0.1
	maxEQMidQ     = 10.0

	minCompThresholdDB = -60.0
	maxCompThresholdDB = 0.0
	minCompRatio       = 1.0
	maxCompRatio       = 20.0

	minLimiterThresholdDB = -12.0
	maxLimiterThresholdDB = 0.0

	minReverbMix      = 0.0
	maxReverbMix      = 1.0
	minReverbFeedback = 0.0
	maxReverbFeedback = 0.98
)

// defaultLimiterThresholdDB round-trips to the limiter's 0.98 linear
// default ceiling.
var defaultLimiterThresholdDB = float32(20 * math.Log10(0.98))

// Params is one consistent snapshot of every chain parameter after
// clamping. Snapshots are plain data: the control thread builds a new
// one per setter call and publishes it atomically, and the audio
// thread applies it wholesale at the next block boundary.
type Params struct {
	EQLowGainDB  float32
	EQMidGainDB  float32
	EQHighGainDB float32
	EQLowFreq    float32
	EQMidFreq    float32
	EQHighFreq   float32
	EQMidQ       float32

	CompThresholdDB float32
	CompRatio       float32
	CompAttackMs    float32
	CompReleaseMs   float32
	CompMakeupDB    float32

	LimiterThresholdDB float32

	ReverbMix      float32
	ReverbFeedback float32
}

func defaultParams() Params {
	return Params{
		EQLowFreq:  eq.DefaultLowFreq,
		EQMidFreq:  eq.DefaultMidFreq,
		EQHighFreq: eq.DefaultHighFreq,
		EQMidQ:     eq.DefaultMidQ,

		CompThresholdDB: -24,
		CompRatio:       4,
		CompAttackMs:    5,
		CompReleaseMs:   100,
		CompMakeupDB:    0,

		LimiterThresholdDB: defaultLimiterThresholdDB,

		ReverbMix:      0,
		ReverbFeedback: 0.84,
	}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
