// Package pitch implements a time-domain resampling pitch shifter.
//
// This is a coarse approximation: each output index maps to the
// nearest input sample at index*ratio, with no interpolation and no
// spectral processing, so shifting also changes duration within the
// block. It is not a phase-vocoder pitch shift and should not be
// presented as one.
package pitch

const (
	defaultRatio = 1.0

	minRatio = 0.5
	maxRatio = 2.0
)

// Shifter holds the pitch-shift ratio applied by Process. Construct
// with NewShifter to start at the identity ratio.
type Shifter struct {
	ratio float32
}

// NewShifter returns a shifter at the identity ratio 1.0.
func NewShifter() *Shifter {
	return &Shifter{ratio: defaultRatio}
}

// SetRatio sets the pitch ratio, clamped to [0.5, 2.0]. 2.0 is one
// octave up, 0.5 one octave down.
func (s *Shifter) SetRatio(ratio float32) {
	if ratio < minRatio {
		ratio = minRatio
	}
	if ratio > maxRatio {
		ratio = maxRatio
	}
	s.ratio = ratio
}

// Ratio returns the clamped ratio.
func (s *Shifter) Ratio() float32 { return s.ratio }

// Process fills output by nearest-sample lookup: out[i] = in[round(i*ratio)].
// Indexes past the end of input produce zeros. Only the shorter of the
// two lengths is processed.
func (s *Shifter) Process(input []float32, output []float32) {
	n := len(input)
	if len(output) < n {
		n = len(output)
	}

	for i := 0; i < n; i++ {
		pos := int(float32(i)*s.ratio + 0.5)
		if pos < len(input) {
			output[i] = input[pos]
		} else {
			output[i] = 0
		}
	}
}
