// Package eq implements the 3-band parametric equalizer used at the
// head of the processing chain: low shelf, mid peaking, high shelf,
// applied in that fixed order.
package eq

import "github.com/ravraudio/dspcore/dsp/biquad"

// Default band settings, matching a neutral mastering-style curve.
const (
	DefaultLowFreq  = 80.0
	DefaultMidFreq  = 1000.0
	DefaultHighFreq = 10000.0
	DefaultMidQ     = 0.707
)

// Band frequency and Q clamp ranges.
const (
	minLowFreq  = 20.0
	maxLowFreq  = 500.0
	minMidFreq  = 200.0
	maxMidFreq  = 8000.0
	minHighFreq = 2000.0
	maxHighFreq = 20000.0
	minMidQ     = 0.1
	maxMidQ     = 10.0
)

// ThreeBand is a low-shelf, peaking, high-shelf cascade with stereo
// state per band. Band frequencies and the mid Q are cached so that
// gain-only setters can redesign a band without the caller resupplying
// them.
type ThreeBand struct {
	sampleRate float32

	low  *biquad.Stereo
	mid  *biquad.Stereo
	high *biquad.Stereo

	lowFreq  float32
	midFreq  float32
	highFreq float32
	midQ     float32
}

// New returns a flat-response equalizer at the given sample rate.
// The sample rate is fixed for the equalizer's lifetime.
func New(sampleRate float32) *ThreeBand {
	e := &ThreeBand{
		sampleRate: sampleRate,
		low:        biquad.NewStereo(),
		mid:        biquad.NewStereo(),
		high:       biquad.NewStereo(),
		lowFreq:    DefaultLowFreq,
		midFreq:    DefaultMidFreq,
		highFreq:   DefaultHighFreq,
		midQ:       DefaultMidQ,
	}
	e.SetFlat()

	return e
}

// SetFlat redesigns all three bands at 0 dB.
func (e *ThreeBand) SetFlat() {
	e.low.SetLowShelf(e.lowFreq, 0, e.sampleRate)
	e.mid.SetPeaking(e.midFreq, 0, e.midQ, e.sampleRate)
	e.high.SetHighShelf(e.highFreq, 0, e.sampleRate)
}

// SetLowGain redesigns the low shelf with the cached corner frequency.
func (e *ThreeBand) SetLowGain(gainDB float32) {
	e.low.SetLowShelf(e.lowFreq, gainDB, e.sampleRate)
}

// SetMidGain redesigns the mid peak with the cached frequency and Q.
func (e *ThreeBand) SetMidGain(gainDB float32) {
	e.mid.SetPeaking(e.midFreq, gainDB, e.midQ, e.sampleRate)
}

// SetHighGain redesigns the high shelf with the cached corner frequency.
func (e *ThreeBand) SetHighGain(gainDB float32) {
	e.high.SetHighShelf(e.highFreq, gainDB, e.sampleRate)
}

// SetBands updates the cached band frequencies and mid Q, clamped to
// their documented ranges. Filters are not redesigned until the next
// gain setter fires, mirroring the host's settings-cache behavior.
func (e *ThreeBand) SetBands(lowFreq, midFreq, highFreq, midQ float32) {
	e.lowFreq = clamp(lowFreq, minLowFreq, maxLowFreq)
	e.midFreq = clamp(midFreq, minMidFreq, maxMidFreq)
	e.highFreq = clamp(highFreq, minHighFreq, maxHighFreq)
	e.midQ = clamp(midQ, minMidQ, maxMidQ)
}

// Bands returns the cached low, mid, high frequencies and mid Q after
// clamping.
func (e *ThreeBand) Bands() (lowFreq, midFreq, highFreq, midQ float32) {
	return e.lowFreq, e.midFreq, e.highFreq, e.midQ
}

// ProcessStereo runs one sample pair through the three bands in order.
func (e *ThreeBand) ProcessStereo(inL, inR float32) (outL, outR float32) {
	l, r := e.low.ProcessStereo(inL, inR)
	l, r = e.mid.ProcessStereo(l, r)

	return e.high.ProcessStereo(l, r)
}

// Reset clears all band histories and redesigns every band flat. Gain
// settings applied before the reset are intentionally discarded; the
// host re-applies its settings after a seek.
func (e *ThreeBand) Reset() {
	e.low.Reset()
	e.mid.Reset()
	e.high.Reset()
	e.SetFlat()
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
