// Package spectrum provides a windowed FFT magnitude analyzer for UI
// spectrum displays and offline analysis of processed audio.
//
// The analyzer is not part of the real-time chain: Compute allocates
// nothing but runs an FFT, so hosts call it from a UI or analysis
// thread, feeding it copies of processed blocks.
package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	algofft "github.com/MeKo-Christian/algo-fft"
)

const (
	minFFTSize = 64
	maxFFTSize = 32768

	// Bins below this magnitude are pinned to the dB floor.
	floorDB = -130.0
)

// Analyzer accumulates samples into a ring buffer and computes the
// Hann-windowed magnitude spectrum in dB of the most recent fftSize
// samples.
type Analyzer struct {
	sampleRate float64
	fftSize    int

	plan *algofft.Plan[complex128]

	window     []float64
	windowGain float64

	ring   []float64
	write  int
	filled int

	input  []complex128
	output []complex128
	re     []float64
	im     []float64
	mags   []float64
	db     []float64
}

// New creates an analyzer. fftSize must be a power of two in
// [64, 32768].
func New(fftSize int, sampleRate float32) (*Analyzer, error) {
	sr := float64(sampleRate)
	if sr <= 0 || math.IsNaN(sr) || math.IsInf(sr, 0) {
		return nil, fmt.Errorf("analyzer sample rate must be positive and finite: %f", sr)
	}
	if fftSize < minFFTSize || fftSize > maxFFTSize || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("analyzer fft size must be a power of two in [%d, %d]: %d",
			minFFTSize, maxFFTSize, fftSize)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("analyzer fft plan: %w", err)
	}

	// Periodic Hann window and its coherent gain for amplitude
	// compensation.
	win := make([]float64, fftSize)
	sum := 0.0
	for i := range win {
		win[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(fftSize))
		sum += win[i]
	}

	bins := fftSize/2 + 1

	return &Analyzer{
		sampleRate: sr,
		fftSize:    fftSize,
		plan:       plan,
		window:     win,
		windowGain: sum / float64(fftSize),
		ring:       make([]float64, fftSize),
		input:      make([]complex128, fftSize),
		output:     make([]complex128, fftSize),
		re:         make([]float64, bins),
		im:         make([]float64, bins),
		mags:       make([]float64, bins),
		db:         make([]float64, bins),
	}, nil
}

// FFTSize returns the transform length.
func (a *Analyzer) FFTSize() int { return a.fftSize }

// Bins returns the number of magnitude bins (fftSize/2 + 1).
func (a *Analyzer) Bins() int { return len(a.db) }

// BinFrequency returns the center frequency in Hz of bin i.
func (a *Analyzer) BinFrequency(i int) float64 {
	return float64(i) * a.sampleRate / float64(a.fftSize)
}

// Push appends samples to the ring buffer, keeping the most recent
// fftSize samples.
func (a *Analyzer) Push(samples []float32) {
	for _, s := range samples {
		a.ring[a.write] = float64(s)
		a.write++
		if a.write >= a.fftSize {
			a.write = 0
		}
		if a.filled < a.fftSize {
			a.filled++
		}
	}
}

// Ready reports whether a full window of samples has been pushed.
func (a *Analyzer) Ready() bool { return a.filled >= a.fftSize }

// Compute windows the most recent fftSize samples, runs the FFT, and
// returns per-bin magnitudes in dBFS. The returned slice is reused by
// subsequent calls.
func (a *Analyzer) Compute() ([]float64, error) {
	if !a.Ready() {
		return nil, fmt.Errorf("analyzer needs %d samples, have %d", a.fftSize, a.filled)
	}

	// Unroll the ring into time order, oldest first, and window it.
	pos := a.write
	for i := 0; i < a.fftSize; i++ {
		a.input[i] = complex(a.ring[pos]*a.window[i], 0)
		pos++
		if pos >= a.fftSize {
			pos = 0
		}
	}

	if err := a.plan.Forward(a.output, a.input); err != nil {
		return nil, fmt.Errorf("analyzer fft: %w", err)
	}

	for i := range a.re {
		a.re[i] = real(a.output[i])
		a.im[i] = imag(a.output[i])
	}
	vecmath.Magnitude(a.mags, a.re, a.im)

	// Single-sided amplitude spectrum, compensated for the window's
	// coherent gain.
	norm := 2 / (float64(a.fftSize) * a.windowGain)
	for i, m := range a.mags {
		amp := m * norm
		if i == 0 || i == len(a.mags)-1 {
			amp *= 0.5 // DC and Nyquist are not doubled
		}
		if amp <= 0 {
			a.db[i] = floorDB
			continue
		}
		db := 20 * math.Log10(amp)
		if db < floorDB {
			db = floorDB
		}
		a.db[i] = db
	}

	return a.db, nil
}

// PeakBin returns the index of the strongest bin of the last Compute.
func (a *Analyzer) PeakBin() int {
	best := 0
	for i := range a.db {
		if a.db[i] > a.db[best] {
			best = i
		}
	}

	return best
}
