// Package biquad implements single second-order IIR sections with
// stereo per-channel state, plus the closed-form shelf and peaking
// designs used by the 3-band equalizer.
package biquad

import "math"

// shelfSlope is the fixed shelf slope parameter S used by both shelf
// designs.
const shelfSlope = 0.9

// Coefficients holds the transfer function coefficients for a single
// second-order section. a0 is normalized to 1 and not stored.
type Coefficients struct {
	B0, B1, B2 float32 // feedforward (numerator)
	A1, A2     float32 // feedback (denominator)
}

// Identity returns coefficients for a unity-gain passthrough section.
func Identity() Coefficients {
	return Coefficients{B0: 1}
}

// LowShelf designs a low-shelf biquad with gain in dB.
//
// Intermediate terms follow the standard shelf design: A = 10^(gain/40),
// w0 = 2*pi*freq/sampleRate, alpha derived from the fixed shelf slope.
func LowShelf(freq, gainDB, sampleRate float32) Coefficients {
	a := math.Pow(10, float64(gainDB)/40)
	w0 := 2 * math.Pi * float64(freq) / float64(sampleRate)
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / 2 * math.Sqrt((a+1/a)*(1/shelfSlope-1)+2)
	beta := 2 * math.Sqrt(a) * alpha

	a0 := (a + 1) + (a-1)*cw + beta

	return normalize(
		a*((a+1)-(a-1)*cw+beta),
		2*a*((a-1)-(a+1)*cw),
		a*((a+1)-(a-1)*cw-beta),
		a0,
		-2*((a-1)+(a+1)*cw),
		(a+1)+(a-1)*cw-beta,
	)
}

// HighShelf designs a high-shelf biquad with gain in dB.
func HighShelf(freq, gainDB, sampleRate float32) Coefficients {
	a := math.Pow(10, float64(gainDB)/40)
	w0 := 2 * math.Pi * float64(freq) / float64(sampleRate)
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / 2 * math.Sqrt((a+1/a)*(1/shelfSlope-1)+2)
	beta := 2 * math.Sqrt(a) * alpha

	a0 := (a + 1) - (a-1)*cw + beta

	return normalize(
		a*((a+1)+(a-1)*cw+beta),
		-2*a*((a-1)+(a+1)*cw),
		a*((a+1)+(a-1)*cw-beta),
		a0,
		2*((a-1)-(a+1)*cw),
		(a+1)-(a-1)*cw-beta,
	)
}

// Peaking designs a peaking-EQ biquad with gain in dB and bandwidth
// controlled by q.
func Peaking(freq, gainDB, q, sampleRate float32) Coefficients {
	a := math.Pow(10, float64(gainDB)/40)
	w0 := 2 * math.Pi * float64(freq) / float64(sampleRate)
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * float64(q))

	a0 := 1 + alpha/a

	return normalize(
		1+alpha*a,
		-2*cw,
		1-alpha*a,
		a0,
		-2*cw,
		1-alpha/a,
	)
}

func normalize(b0, b1, b2, a0, a1, a2 float64) Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return Identity()
	}

	return Coefficients{
		B0: float32(b0 / a0),
		B1: float32(b1 / a0),
		B2: float32(b2 / a0),
		A1: float32(a1 / a0),
		A2: float32(a2 / a0),
	}
}

// history holds two prior inputs and two prior outputs of one channel.
type history struct {
	x1, x2 float32
	y1, y2 float32
}

func (h *history) process(c Coefficients, x float32) float32 {
	y := c.B0*x + c.B1*h.x1 + c.B2*h.x2 - c.A1*h.y1 - c.A2*h.y2
	h.x2 = h.x1
	h.x1 = x
	h.y2 = h.y1
	h.y1 = y

	return y
}

// Stereo is a single biquad section with independent left/right state.
// The zero value is not usable; construct with NewStereo.
type Stereo struct {
	coeffs Coefficients

	left  history
	right history
}

// NewStereo returns a stereo section with passthrough coefficients and
// zero state.
func NewStereo() *Stereo {
	return &Stereo{coeffs: Identity()}
}

// SetCoefficients replaces the coefficient set wholesale. The delay-line
// state of both channels is preserved, so a gain change does not click
// from discontinuous state, only through the new transfer function.
func (s *Stereo) SetCoefficients(c Coefficients) {
	s.coeffs = c
}

// Coefficients returns the active coefficient set.
func (s *Stereo) Coefficients() Coefficients {
	return s.coeffs
}

// SetLowShelf redesigns the section as a low shelf.
func (s *Stereo) SetLowShelf(freq, gainDB, sampleRate float32) {
	s.coeffs = LowShelf(freq, gainDB, sampleRate)
}

// SetHighShelf redesigns the section as a high shelf.
func (s *Stereo) SetHighShelf(freq, gainDB, sampleRate float32) {
	s.coeffs = HighShelf(freq, gainDB, sampleRate)
}

// SetPeaking redesigns the section as a peaking EQ.
func (s *Stereo) SetPeaking(freq, gainDB, q, sampleRate float32) {
	s.coeffs = Peaking(freq, gainDB, q, sampleRate)
}

// ProcessStereo filters one sample pair and advances both channel
// histories. O(1), no data-dependent branches.
func (s *Stereo) ProcessStereo(inL, inR float32) (outL, outR float32) {
	return s.left.process(s.coeffs, inL), s.right.process(s.coeffs, inR)
}

// Reset clears both channel histories. Coefficients are untouched.
func (s *Stereo) Reset() {
	s.left = history{}
	s.right = history{}
}
