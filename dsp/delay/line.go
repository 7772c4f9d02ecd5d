// Package delay provides a fixed-length circular delay line. It is the
// shared substrate for the reverb's comb and allpass filters so the
// cursor wrap logic lives in exactly one place.
package delay

import "fmt"

// Line is a circular delay line of fixed length with an internal write
// cursor. The length is set at construction and never changes.
type Line struct {
	buffer   []float32
	writePos int
}

// New returns a delay line of fixed size.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}

	return &Line{buffer: make([]float32, size)}, nil
}

// Len returns the internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Tap returns the sample at the write cursor, i.e. the oldest sample:
// the value written Len() calls ago.
func (d *Line) Tap() float32 {
	return d.buffer[d.writePos]
}

// Push overwrites the sample at the write cursor and advances the
// cursor by one, wrapping at the buffer length.
func (d *Line) Push(sample float32) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads a sample delayed by the given number of samples relative
// to the write cursor. A delay of Len() reads the oldest sample.
func (d *Line) Read(delaySamples int) float32 {
	size := len(d.buffer)
	readPos := (d.writePos - delaySamples%size + size) % size

	return d.buffer[readPos]
}

// Reset zeroes the buffer and rewinds the cursor.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}
