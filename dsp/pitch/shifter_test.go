package pitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatioClamp(t *testing.T) {
	s := NewShifter()

	s.SetRatio(3.0)
	assert.InDelta(t, 2.0, s.Ratio(), 1e-9)

	s.SetRatio(0.1)
	assert.InDelta(t, 0.5, s.Ratio(), 1e-9)

	s.SetRatio(1.25)
	assert.InDelta(t, 1.25, s.Ratio(), 1e-9)
}

func TestIdentityRatioCopies(t *testing.T) {
	s := NewShifter()

	in := []float32{0.1, -0.2, 0.3, -0.4, 0.5}
	out := make([]float32, len(in))
	s.Process(in, out)

	assert.Equal(t, in, out)
}

func TestOctaveUpSkipsSamples(t *testing.T) {
	s := NewShifter()
	s.SetRatio(2.0)

	in := []float32{0, 1, 2, 3, 4, 5, 6, 7}
	out := make([]float32, len(in))
	s.Process(in, out)

	// out[i] = in[2i] while in range, then zeros.
	require.Equal(t, []float32{0, 2, 4, 6, 0, 0, 0, 0}, out)
}

func TestRoundsToNearestSample(t *testing.T) {
	s := NewShifter()
	s.SetRatio(0.5)

	in := []float32{0, 10, 20, 30}
	out := make([]float32, len(in))
	s.Process(in, out)

	// Indexes 0, 0.5, 1, 1.5 round to 0, 1, 1, 2.
	require.Equal(t, []float32{0, 10, 10, 20}, out)
}

func TestLengthMismatchTruncates(t *testing.T) {
	s := NewShifter()

	in := []float32{1, 2, 3, 4}
	out := make([]float32, 2)
	s.Process(in, out)
	assert.Equal(t, []float32{1, 2}, out)

	short := []float32{1, 2}
	long := []float32{9, 9, 9, 9}
	s.Process(short, long)
	// Only the first two slots are written.
	assert.Equal(t, []float32{1, 2, 9, 9}, long)
}

func TestEmptyBuffersNoop(t *testing.T) {
	s := NewShifter()
	assert.NotPanics(t, func() {
		s.Process(nil, nil)
		s.Process([]float32{}, []float32{})
	})
}
