// Package reverb implements a Schroeder-style stereo reverb: six
// parallel feedback comb filters feeding four series allpass diffusers
// per channel. The comb delay lengths differ between channels so the
// tail decorrelates across the stereo field.
package reverb

import (
	"fmt"
	"math"

	"github.com/ravraudio/dspcore/dsp/delay"
)

const (
	numCombs     = 6
	numAllpasses = 4

	defaultCombFeedback    = 0.84
	defaultAllpassFeedback = 0.5

	minCombFeedback = 0.0
	// Kept below 1 so the comb feedback loops stay stable.
	maxCombFeedback = 0.98

	// mix > enabledEpsilon switches processing on.
	enabledEpsilon = 0.001

	// Wet level is deliberately attenuated to avoid runaway loudness.
	wetScale = 0.4

	// Delay lengths are tuned at this reference rate and scaled linearly
	// for other sample rates.
	referenceRate = 48000.0
)

// Reference delay lengths in samples at 48 kHz. Prime-ish values, with
// slightly different left/right comb lengths for decorrelation. The
// allpass lengths are shared between channels.
var (
	combTuningL   = [numCombs]int{1557, 1617, 1491, 1422, 1277, 1356}
	combTuningR   = [numCombs]int{1583, 1601, 1511, 1447, 1291, 1373}
	allpassTuning = [numAllpasses]int{225, 556, 441, 341}
)

// comb is one feedback delay line pair.
type comb struct {
	left  *delay.Line
	right *delay.Line
}

// allpass is one series diffusion stage pair.
type allpass struct {
	left  *delay.Line
	right *delay.Line
}

// Stereo is the reverb stage. Buffers are sized once at construction
// and never resized.
type Stereo struct {
	mix     float32
	enabled bool

	combFeedback    float32
	allpassFeedback float32

	combs     [numCombs]comb
	allpasses [numAllpasses]allpass
}

// New builds a reverb for the given sample rate, scaling the 48 kHz
// reference delay lengths by sampleRate/48000. The reverb starts
// disabled (mix 0).
func New(sampleRate float32) (*Stereo, error) {
	sr := float64(sampleRate)
	if sr <= 0 || math.IsNaN(sr) || math.IsInf(sr, 0) {
		return nil, fmt.Errorf("reverb sample rate must be positive and finite: %f", sr)
	}

	scale := sr / referenceRate

	r := &Stereo{
		combFeedback:    defaultCombFeedback,
		allpassFeedback: defaultAllpassFeedback,
	}

	for i := 0; i < numCombs; i++ {
		left, err := delay.New(scaledLength(combTuningL[i], scale))
		if err != nil {
			return nil, fmt.Errorf("reverb comb %d left: %w", i, err)
		}
		right, err := delay.New(scaledLength(combTuningR[i], scale))
		if err != nil {
			return nil, fmt.Errorf("reverb comb %d right: %w", i, err)
		}
		r.combs[i] = comb{left: left, right: right}
	}

	for i := 0; i < numAllpasses; i++ {
		left, err := delay.New(scaledLength(allpassTuning[i], scale))
		if err != nil {
			return nil, fmt.Errorf("reverb allpass %d left: %w", i, err)
		}
		right, err := delay.New(scaledLength(allpassTuning[i], scale))
		if err != nil {
			return nil, fmt.Errorf("reverb allpass %d right: %w", i, err)
		}
		r.allpasses[i] = allpass{left: left, right: right}
	}

	return r, nil
}

func scaledLength(reference int, scale float64) int {
	n := int(float64(reference) * scale)
	if n < 1 {
		n = 1
	}

	return n
}

// SetMix sets the dry/wet mix, clamped to [0, 1]. A mix at or below
// 0.001 disables the stage entirely, making it an exact passthrough.
func (r *Stereo) SetMix(mix float32) {
	if mix < 0 {
		mix = 0
	}
	if mix > 1 {
		mix = 1
	}
	r.mix = mix
	r.enabled = mix > enabledEpsilon
}

// Mix returns the clamped mix value.
func (r *Stereo) Mix() float32 { return r.mix }

// Enabled reports whether the stage processes at all.
func (r *Stereo) Enabled() bool { return r.enabled }

// SetCombFeedback sets the comb feedback coefficient, clamped to
// [0, 0.98].
func (r *Stereo) SetCombFeedback(feedback float32) {
	if feedback < minCombFeedback {
		feedback = minCombFeedback
	}
	if feedback > maxCombFeedback {
		feedback = maxCombFeedback
	}
	r.combFeedback = feedback
}

// CombFeedback returns the clamped comb feedback coefficient.
func (r *Stereo) CombFeedback() float32 { return r.combFeedback }

// ProcessStereo runs one sample pair through the comb bank and the
// allpass cascade. Disabled, it returns the input unchanged.
func (r *Stereo) ProcessStereo(inL, inR float32) (outL, outR float32) {
	if !r.enabled {
		return inL, inR
	}

	var sumL, sumR float32
	for i := range r.combs {
		c := &r.combs[i]

		delayedL := c.left.Tap()
		delayedR := c.right.Tap()

		c.left.Push(inL + delayedL*r.combFeedback)
		c.right.Push(inR + delayedR*r.combFeedback)

		sumL += delayedL
		sumR += delayedR
	}

	wetL := sumL / numCombs
	wetR := sumR / numCombs

	for i := range r.allpasses {
		a := &r.allpasses[i]

		delayedL := a.left.Tap()
		delayedR := a.right.Tap()

		newL := wetL + delayedL*r.allpassFeedback
		newR := wetR + delayedR*r.allpassFeedback

		a.left.Push(wetL)
		a.right.Push(wetR)

		wetL = delayedL - newL*r.allpassFeedback
		wetR = delayedR - newR*r.allpassFeedback
	}

	dry := 1 - r.mix
	wet := r.mix * wetScale

	return inL*dry + wetL*wet, inR*dry + wetR*wet
}

// Reset zeroes every delay buffer. Mix and feedback settings are kept.
func (r *Stereo) Reset() {
	for i := range r.combs {
		r.combs[i].left.Reset()
		r.combs[i].right.Reset()
	}
	for i := range r.allpasses {
		r.allpasses[i].left.Reset()
		r.allpasses[i].right.Reset()
	}
}
