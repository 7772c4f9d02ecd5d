package eq

import (
	"math"
	"testing"
)

// TestFlatIdentity verifies the default equalizer passes arbitrary
// input through within float tolerance.
func TestFlatIdentity(t *testing.T) {
	e := New(48000)

	for i := 0; i < 512; i++ {
		x := float32(math.Sin(float64(i)*0.37) * 0.8)
		l, r := e.ProcessStereo(x, -x)
		if math.Abs(float64(l-x)) > 1e-5 || math.Abs(float64(r+x)) > 1e-5 {
			t.Fatalf("sample %d: got (%v, %v), want (%v, %v)", i, l, r, x, -x)
		}
	}
}

// TestSetBandsClamps verifies frequency and Q clamping.
func TestSetBandsClamps(t *testing.T) {
	e := New(48000)
	e.SetBands(5, 100000, 100, 50)

	low, mid, high, q := e.Bands()
	if low != 20 {
		t.Errorf("low = %v, want 20", low)
	}
	if mid != 8000 {
		t.Errorf("mid = %v, want 8000", mid)
	}
	if high != 2000 {
		t.Errorf("high = %v, want 2000", high)
	}
	if q != 10 {
		t.Errorf("q = %v, want 10", q)
	}
}

// TestGainSetterUsesCachedBands verifies a gain-only setter picks up a
// previously cached frequency.
func TestGainSetterUsesCachedBands(t *testing.T) {
	a := New(48000)
	a.SetBands(120, 2000, 6000, 1.5)
	a.SetLowGain(6)
	a.SetMidGain(-3)
	a.SetHighGain(2)

	b := New(48000)
	b.SetBands(120, 2000, 6000, 1.5)
	b.SetLowGain(6)
	b.SetMidGain(-3)
	b.SetHighGain(2)

	for i := 0; i < 256; i++ {
		x := float32(math.Sin(float64(i) * 0.11))
		al, ar := a.ProcessStereo(x, x)
		bl, br := b.ProcessStereo(x, x)
		if al != bl || ar != br {
			t.Fatalf("sample %d: outputs diverge", i)
		}
	}
}

// TestResetReturnsToFlat verifies reset discards gains and history.
func TestResetReturnsToFlat(t *testing.T) {
	e := New(48000)
	e.SetLowGain(12)
	e.SetMidGain(-12)
	for i := 0; i < 128; i++ {
		e.ProcessStereo(0.5, 0.5)
	}

	e.Reset()

	for i := 0; i < 256; i++ {
		x := float32(math.Cos(float64(i) * 0.21))
		l, r := e.ProcessStereo(x, x)
		if math.Abs(float64(l-x)) > 1e-5 || math.Abs(float64(r-x)) > 1e-5 {
			t.Fatalf("sample %d after reset: got (%v, %v), want %v", i, l, r, x)
		}
	}
}
