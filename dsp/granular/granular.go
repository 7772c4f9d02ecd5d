// Package granular implements a grain-based synthesizer that loops a
// preloaded sample buffer through fixed-size half-sine windowed grains.
package granular

import (
	"fmt"
	"math"
)

const defaultDensity = 0.5

// Synth fills output blocks from a preloaded buffer, applying a
// half-sine (Hann-like) envelope keyed to the position within each
// fixed-size grain and scaling by density.
//
// Grain placement is strictly periodic. The randomness parameter of
// SetParameters is accepted for interface compatibility with the host
// but currently has no effect.
type Synth struct {
	grainSize int
	density   float32
	buffer    []float32
}

// NewSynth returns a synthesizer with the given grain size in samples
// and an empty sample buffer.
func NewSynth(grainSize int) (*Synth, error) {
	if grainSize <= 0 {
		return nil, fmt.Errorf("granular grain size must be > 0: %d", grainSize)
	}

	return &Synth{
		grainSize: grainSize,
		density:   defaultDensity,
	}, nil
}

// SetParameters updates grain size and density. Density clamps to
// [0, 1]. Randomness is ignored (see type doc).
func (s *Synth) SetParameters(grainSize int, density, randomness float32) {
	_ = randomness

	if grainSize > 0 {
		s.grainSize = grainSize
	}
	if density < 0 {
		density = 0
	}
	if density > 1 {
		density = 1
	}
	s.density = density
}

// GrainSize returns the grain size in samples.
func (s *Synth) GrainSize() int { return s.grainSize }

// Density returns the clamped density.
func (s *Synth) Density() float32 { return s.density }

// LoadBuffer copies samples into the synthesizer's loop buffer. Call
// before real-time processing starts; Process itself never allocates.
func (s *Synth) LoadBuffer(samples []float32) {
	s.buffer = append(s.buffer[:0], samples...)
}

// Process fills output from the loop buffer. With no buffer loaded it
// leaves output untouched.
func (s *Synth) Process(output []float32) {
	if len(s.buffer) == 0 {
		return
	}

	bufLen := len(s.buffer)
	grain := float64(s.grainSize)

	for i := range output {
		grainPos := float64(i%s.grainSize) / grain
		envelope := float32(math.Sin(grainPos * math.Pi))
		output[i] = s.buffer[i%bufLen] * envelope * s.density
	}
}
