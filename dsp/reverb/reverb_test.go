package reverb

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate float32
		wantErr    bool
	}{
		{"valid 48000", 48000, false},
		{"valid 44100", 44100, false},
		{"valid 8000", 8000, false},
		{"invalid zero", 0, true},
		{"invalid negative", -48000, true},
		{"invalid NaN", float32(math.NaN()), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.sampleRate)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && r == nil {
				t.Fatal("New() returned nil without error")
			}
		})
	}
}

// TestDelayLengthScaling verifies buffer lengths scale from the 48 kHz
// references.
func TestDelayLengthScaling(t *testing.T) {
	r96, _ := New(96000)
	r48, _ := New(48000)

	for i := range r48.combs {
		want48 := combTuningL[i]
		if got := r48.combs[i].left.Len(); got != want48 {
			t.Errorf("comb %d left at 48k: len %d, want %d", i, got, want48)
		}
		if got := r96.combs[i].left.Len(); got != want48*2 {
			t.Errorf("comb %d left at 96k: len %d, want %d", i, got, want48*2)
		}
	}

	for i := range r48.allpasses {
		if got := r48.allpasses[i].left.Len(); got != allpassTuning[i] {
			t.Errorf("allpass %d at 48k: len %d, want %d", i, got, allpassTuning[i])
		}
		// Shared tuning across channels.
		if r48.allpasses[i].left.Len() != r48.allpasses[i].right.Len() {
			t.Errorf("allpass %d: channel lengths differ", i)
		}
	}
}

// TestCombDecorrelation verifies left/right comb lengths differ.
func TestCombDecorrelation(t *testing.T) {
	r, _ := New(48000)
	for i := range r.combs {
		if r.combs[i].left.Len() == r.combs[i].right.Len() {
			t.Errorf("comb %d: identical channel lengths defeat decorrelation", i)
		}
	}
}

// TestBypassIsExact verifies mix 0 passes input through bit-exactly.
func TestBypassIsExact(t *testing.T) {
	r, _ := New(48000)

	for i := 0; i < 2048; i++ {
		x := float32(math.Sin(float64(i) * 0.173))
		l, rr := r.ProcessStereo(x, -x)
		if l != x || rr != -x {
			t.Fatalf("sample %d: bypass altered signal: (%v, %v)", i, l, rr)
		}
	}
}

// TestMixTogglesEnabled verifies the 0.001 enable hysteresis point.
func TestMixTogglesEnabled(t *testing.T) {
	r, _ := New(48000)

	r.SetMix(0.0005)
	if r.Enabled() {
		t.Error("mix 0.0005 should leave the stage disabled")
	}

	r.SetMix(0.5)
	if !r.Enabled() {
		t.Error("mix 0.5 should enable the stage")
	}

	r.SetMix(-2)
	if r.Mix() != 0 || r.Enabled() {
		t.Errorf("mix clamp failed: mix=%v enabled=%v", r.Mix(), r.Enabled())
	}

	r.SetMix(3)
	if r.Mix() != 1 {
		t.Errorf("mix clamp failed: mix=%v, want 1", r.Mix())
	}
}

// TestFeedbackClamp verifies comb feedback stays in [0, 0.98].
func TestFeedbackClamp(t *testing.T) {
	r, _ := New(48000)

	r.SetCombFeedback(1.5)
	if got := r.CombFeedback(); got != 0.98 {
		t.Errorf("CombFeedback() = %v, want 0.98", got)
	}

	r.SetCombFeedback(-0.1)
	if got := r.CombFeedback(); got != 0 {
		t.Errorf("CombFeedback() = %v, want 0", got)
	}
}

// TestImpulseProducesTail verifies an impulse generates delayed energy
// and that the tail decays rather than blowing up.
func TestImpulseProducesTail(t *testing.T) {
	r, _ := New(48000)
	r.SetMix(1)

	l, _ := r.ProcessStereo(1, 1)
	// First wet sample is pure dry-scaled zero: all taps are empty.
	if l != 0 {
		t.Errorf("first output = %v, want 0 (mix 1 removes dry path)", l)
	}

	var peak, late float32
	for i := 1; i < 48000; i++ {
		out, _ := r.ProcessStereo(0, 0)
		if a := abs32(out); a > peak {
			peak = a
		}
		if i >= 47000 {
			if a := abs32(out); a > late {
				late = a
			}
		}
	}

	if peak == 0 {
		t.Fatal("impulse produced no reverb tail")
	}
	if late >= peak {
		t.Errorf("tail is not decaying: late peak %v >= overall peak %v", late, peak)
	}
}

// TestResetSilencesTail verifies reset clears all delay state.
func TestResetSilencesTail(t *testing.T) {
	r, _ := New(48000)
	r.SetMix(1)

	for i := 0; i < 4096; i++ {
		r.ProcessStereo(1, -1)
	}
	r.Reset()

	for i := 0; i < 4096; i++ {
		l, rr := r.ProcessStereo(0, 0)
		if l != 0 || rr != 0 {
			t.Fatalf("sample %d after reset: (%v, %v), want silence", i, l, rr)
		}
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
