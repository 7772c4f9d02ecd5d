package dynamics

import (
	"math"
	"testing"
)

func TestNewCompressor(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate float32
		wantErr    bool
	}{
		{"valid 44100", 44100, false},
		{"valid 48000", 48000, false},
		{"invalid zero", 0, true},
		{"invalid negative", -1, true},
		{"invalid NaN", float32(math.NaN()), true},
		{"invalid +Inf", float32(math.Inf(1)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCompressor(tt.sampleRate)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewCompressor() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && c == nil {
				t.Error("NewCompressor() returned nil without error")
			}
		})
	}
}

// TestSetClamps verifies out-of-range threshold and ratio are clamped,
// not rejected.
func TestSetClamps(t *testing.T) {
	c, _ := NewCompressor(48000)
	c.Set(10.0, 50.0, 5, 100)

	if got := c.Threshold(); got != 0 {
		t.Errorf("Threshold() = %v, want 0", got)
	}
	if got := c.Ratio(); got != 20 {
		t.Errorf("Ratio() = %v, want 20", got)
	}

	c.Set(-100, 0.5, 5, 100)
	if got := c.Threshold(); got != -60 {
		t.Errorf("Threshold() = %v, want -60", got)
	}
	if got := c.Ratio(); got != 1 {
		t.Errorf("Ratio() = %v, want 1", got)
	}
}

// TestSubThresholdTransparency feeds a signal peaking below threshold:
// the envelope must stay at zero and output equal input.
func TestSubThresholdTransparency(t *testing.T) {
	c, _ := NewCompressor(48000)
	c.Set(-20, 4, 5, 100)

	for i := 0; i < 4096; i++ {
		// Peak 0.05 = -26 dB, safely below the -20 dB threshold.
		x := float32(0.05 * math.Sin(float64(i)*0.1))
		l, r := c.ProcessStereo(x, -x)
		if l != x || r != -x {
			t.Fatalf("sample %d: got (%v, %v), want (%v, %v)", i, l, r, x, -x)
		}
	}

	if env := c.GainReductionDB(); env != 0 {
		t.Errorf("envelope = %v, want 0", env)
	}
}

// TestStereoLinkedGain verifies both channels get identical gain even
// when only one channel is hot.
func TestStereoLinkedGain(t *testing.T) {
	c, _ := NewCompressor(48000)
	c.Set(-20, 8, 1, 50)

	for i := 0; i < 2048; i++ {
		l, r := c.ProcessStereo(0.9, 0.1)
		if i < 8 {
			continue // attack still settling
		}
		gainL := l / 0.9
		gainR := r / 0.1
		if math.Abs(float64(gainL-gainR)) > 1e-5 {
			t.Fatalf("sample %d: gains differ (%v vs %v)", i, gainL, gainR)
		}
	}
}

// TestCompressionReducesExcess verifies steady-state reduction of a
// constant over-threshold signal approaches the hard-knee curve.
func TestCompressionReducesExcess(t *testing.T) {
	c, _ := NewCompressor(48000)
	c.Set(-20, 4, 1, 100)

	// 0 dB constant input, 20 dB excess at 4:1 -> 15 dB reduction.
	var out float32
	for i := 0; i < 48000; i++ {
		out, _ = c.ProcessStereo(1.0, 1.0)
	}

	wantGainDB := -15.0
	gotGainDB := 20 * math.Log10(float64(out))
	if math.Abs(gotGainDB-wantGainDB) > 0.1 {
		t.Errorf("steady-state gain = %.3f dB, want %.3f dB", gotGainDB, wantGainDB)
	}

	if env := float64(c.GainReductionDB()); math.Abs(env-15) > 0.1 {
		t.Errorf("envelope = %.3f dB, want 15 dB", env)
	}
}

// TestMakeupGain verifies makeup is applied as a linear factor on top
// of the computed gain.
func TestMakeupGain(t *testing.T) {
	c, _ := NewCompressor(48000)
	c.Set(-20, 4, 5, 100)
	c.SetMakeupGain(6)

	l, _ := c.ProcessStereo(0.01, 0.01)
	want := 0.01 * math.Pow(10, 6.0/20)
	if math.Abs(float64(l)-want) > 1e-6 {
		t.Errorf("output = %v, want %v", l, want)
	}
}

// TestReset verifies the envelope clears.
func TestReset(t *testing.T) {
	c, _ := NewCompressor(48000)
	for i := 0; i < 1024; i++ {
		c.ProcessStereo(1, 1)
	}
	if c.GainReductionDB() == 0 {
		t.Fatal("expected nonzero envelope before reset")
	}

	c.Reset()

	if got := c.GainReductionDB(); got != 0 {
		t.Errorf("envelope after reset = %v, want 0", got)
	}
}
