// Package processor chains the equalizer, compressor, reverb, and
// limiter stages into the fixed-order stereo processing pipeline and
// exposes the host-facing block entry points, parameter setters, and
// metering readout.
//
// One Processor serves one audio session at a fixed sample rate. The
// block entry points are driven by a single real-time audio thread and
// never allocate, block, or panic across the call boundary. Setters
// may be called from one separate control thread: each call publishes
// a full parameter snapshot through an atomic pointer and the audio
// thread picks it up at the next block boundary, so the audio thread
// never waits on the control thread.
package processor

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/ravraudio/dspcore/dsp/dynamics"
	"github.com/ravraudio/dspcore/dsp/eq"
	"github.com/ravraudio/dspcore/dsp/reverb"
)

// Processor owns the four chain stages and processes stereo samples in
// the fixed order EQ -> compressor -> reverb -> limiter. The limiter is
// always last so upstream gain excursions cannot reach the output.
type Processor struct {
	sampleRate float32

	eq         *eq.ThreeBand
	compressor *dynamics.Compressor
	limiter    *dynamics.Limiter
	reverb     *reverb.Stereo

	// pending is the control-thread working copy of the parameter
	// snapshot; published is what the audio thread reads. applied
	// tracks the snapshot the stages currently reflect.
	pending   Params
	published atomic.Pointer[Params]
	applied   *Params

	// Compressor envelope in dB, published once per block for
	// cross-thread metering.
	gainReductionBits atomic.Uint32
}

// New constructs a processor with a flat, neutral chain: 0 dB EQ,
// default compressor settings, the limiter just below full scale, and
// the reverb disabled.
func New(sampleRate float32) (*Processor, error) {
	sr := float64(sampleRate)
	if sr <= 0 || math.IsNaN(sr) || math.IsInf(sr, 0) {
		return nil, fmt.Errorf("processor sample rate must be positive and finite: %f", sr)
	}

	compressor, err := dynamics.NewCompressor(sampleRate)
	if err != nil {
		return nil, err
	}

	limiter, err := dynamics.NewLimiter(sampleRate)
	if err != nil {
		return nil, err
	}

	rev, err := reverb.New(sampleRate)
	if err != nil {
		return nil, err
	}

	p := &Processor{
		sampleRate: sampleRate,
		eq:         eq.New(sampleRate),
		compressor: compressor,
		limiter:    limiter,
		reverb:     rev,
		pending:    defaultParams(),
	}

	snapshot := p.pending
	p.published.Store(&snapshot)
	p.applied = p.published.Load()

	return p, nil
}

// SampleRate returns the fixed sample rate in Hz.
func (p *Processor) SampleRate() float32 { return p.sampleRate }

// Params returns the current clamped parameter snapshot, for UI
// display of what was actually applied. Control thread only.
func (p *Processor) Params() Params { return p.pending }

// publish clamps nothing itself; callers store clamped values into
// pending first.
func (p *Processor) publish() {
	snapshot := p.pending
	p.published.Store(&snapshot)
}

// SetEQLowGain sets the low-shelf gain in dB.
func (p *Processor) SetEQLowGain(gainDB float32) {
	p.pending.EQLowGainDB = gainDB
	p.publish()
}

// SetEQMidGain sets the mid peaking gain in dB.
func (p *Processor) SetEQMidGain(gainDB float32) {
	p.pending.EQMidGainDB = gainDB
	p.publish()
}

// SetEQHighGain sets the high-shelf gain in dB.
func (p *Processor) SetEQHighGain(gainDB float32) {
	p.pending.EQHighGainDB = gainDB
	p.publish()
}

// SetEQBands sets the band frequencies and mid Q, clamped to
// low 20-500 Hz, mid 200-8000 Hz, high 2000-20000 Hz, Q 0.1-10.
func (p *Processor) SetEQBands(lowFreq, midFreq, highFreq, midQ float32) {
	p.pending.EQLowFreq = clamp(lowFreq, minEQLowFreq, maxEQLowFreq)
	p.pending.EQMidFreq = clamp(midFreq, minEQMidFreq, maxEQMidFreq)
	p.pending.EQHighFreq = clamp(highFreq, minEQHighFreq, maxEQHighFreq)
	p.pending.EQMidQ = clamp(midQ, minEQMidQ, maxEQMidQ)
	p.publish()
}

// SetCompressor sets threshold (clamped to [-60, 0] dB), ratio
// (clamped to [1, 20]), and attack/release times in milliseconds.
func (p *Processor) SetCompressor(thresholdDB, ratio, attackMs, releaseMs float32) {
	p.pending.CompThresholdDB = clamp(thresholdDB, minCompThresholdDB, maxCompThresholdDB)
	p.pending.CompRatio = clamp(ratio, minCompRatio, maxCompRatio)
	p.pending.CompAttackMs = attackMs
	p.pending.CompReleaseMs = releaseMs
	p.publish()
}

// SetCompressorMakeup sets makeup gain in dB.
func (p *Processor) SetCompressorMakeup(gainDB float32) {
	p.pending.CompMakeupDB = gainDB
	p.publish()
}

// SetLimiter sets the limiter ceiling in dB, clamped to [-12, 0].
func (p *Processor) SetLimiter(thresholdDB float32) {
	p.pending.LimiterThresholdDB = clamp(thresholdDB, minLimiterThresholdDB, maxLimiterThresholdDB)
	p.publish()
}

// SetReverbMix sets the reverb dry/wet mix, clamped to [0, 1]. Mix at
// or below 0.001 bypasses the reverb exactly.
func (p *Processor) SetReverbMix(mix float32) {
	p.pending.ReverbMix = clamp(mix, minReverbMix, maxReverbMix)
	p.publish()
}

// SetReverbFeedback sets the comb feedback, clamped to [0, 0.98].
func (p *Processor) SetReverbFeedback(feedback float32) {
	p.pending.ReverbFeedback = clamp(feedback, minReverbFeedback, maxReverbFeedback)
	p.publish()
}

// GainReduction returns the compressor's current gain reduction in dB
// as of the last processed block. Read-only, safe from any thread.
func (p *Processor) GainReduction() float32 {
	return math.Float32frombits(p.gainReductionBits.Load())
}

// Reset clears all filter and envelope history and reinitializes the
// EQ to a flat response, discarding previously set EQ gains along with
// the history. The host calls this on discontinuities such as seeking,
// then re-applies its settings. Must not run concurrently with a
// Process call.
func (p *Processor) Reset() {
	p.eq.Reset()
	p.compressor.Reset()
	p.limiter.Reset()
	p.reverb.Reset()

	p.pending.EQLowGainDB = 0
	p.pending.EQMidGainDB = 0
	p.pending.EQHighGainDB = 0
	p.publish()
	p.applied = p.published.Load()

	p.gainReductionBits.Store(0)
}

// ProcessBlock processes a mono block: each sample runs through the
// stereo chain duplicated to both channels and the stereo result is
// averaged back to mono. Only the shorter of the two buffer lengths is
// processed.
func (p *Processor) ProcessBlock(input, output []float32) {
	n := len(input)
	if len(output) < n {
		n = len(output)
	}

	defer p.containPanic(output[:n])

	p.applyPending()

	for i := 0; i < n; i++ {
		l, r := p.processSample(input[i], input[i])
		output[i] = (l + r) * 0.5
	}

	p.publishMetering()
}

// ProcessBlockStereo processes equal-length stereo buffers through the
// chain. If the four lengths differ, only the shortest common length
// is processed; no error is raised.
func (p *Processor) ProcessBlockStereo(inputL, inputR, outputL, outputR []float32) {
	n := len(inputL)
	if len(inputR) < n {
		n = len(inputR)
	}
	if len(outputL) < n {
		n = len(outputL)
	}
	if len(outputR) < n {
		n = len(outputR)
	}

	defer p.containPanicStereo(outputL[:n], outputR[:n])

	p.applyPending()

	for i := 0; i < n; i++ {
		outputL[i], outputR[i] = p.processSample(inputL[i], inputR[i])
	}

	p.publishMetering()
}

// processSample runs one stereo sample through the fixed chain order.
// Non-finite input is replaced by silence before it can poison filter
// history.
func (p *Processor) processSample(inL, inR float32) (outL, outR float32) {
	inL = scrub(inL)
	inR = scrub(inR)

	l, r := p.eq.ProcessStereo(inL, inR)
	l, r = p.compressor.ProcessStereo(l, r)
	l, r = p.reverb.ProcessStereo(l, r)

	return p.limiter.ProcessStereo(l, r)
}

// applyPending moves the stages onto the latest published snapshot.
// Runs on the audio thread at block boundaries only.
func (p *Processor) applyPending() {
	snapshot := p.published.Load()
	if snapshot == p.applied {
		return
	}

	p.eq.SetBands(snapshot.EQLowFreq, snapshot.EQMidFreq, snapshot.EQHighFreq, snapshot.EQMidQ)
	p.eq.SetLowGain(snapshot.EQLowGainDB)
	p.eq.SetMidGain(snapshot.EQMidGainDB)
	p.eq.SetHighGain(snapshot.EQHighGainDB)

	p.compressor.Set(snapshot.CompThresholdDB, snapshot.CompRatio,
		snapshot.CompAttackMs, snapshot.CompReleaseMs)
	p.compressor.SetMakeupGain(snapshot.CompMakeupDB)

	p.limiter.SetThreshold(snapshot.LimiterThresholdDB)

	p.reverb.SetMix(snapshot.ReverbMix)
	p.reverb.SetCombFeedback(snapshot.ReverbFeedback)

	p.applied = snapshot
}

func (p *Processor) publishMetering() {
	p.gainReductionBits.Store(math.Float32bits(p.compressor.GainReductionDB()))
}

// containPanic degrades an unexpected fault to one silent block
// instead of letting a panic cross the real-time boundary.
func (p *Processor) containPanic(output []float32) {
	if r := recover(); r != nil {
		for i := range output {
			output[i] = 0
		}
	}
}

func (p *Processor) containPanicStereo(outputL, outputR []float32) {
	if r := recover(); r != nil {
		for i := range outputL {
			outputL[i] = 0
		}
		for i := range outputR {
			outputR[i] = 0
		}
	}
}

func scrub(v float32) float32 {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}

	return v
}
