package delay

import "testing"

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"valid", 1024, false},
		{"one", 1, false},
		{"zero", 0, true},
		{"negative", -5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(tt.size)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%d) error = %v, wantErr %v", tt.size, err, tt.wantErr)
			}
			if !tt.wantErr && d.Len() != tt.size {
				t.Errorf("Len() = %d, want %d", d.Len(), tt.size)
			}
		})
	}
}

// TestTapPushRoundTrip verifies Tap returns the value written exactly
// Len() pushes ago.
func TestTapPushRoundTrip(t *testing.T) {
	const size = 7

	d, err := New(size)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 4*size; i++ {
		got := d.Tap()
		var want float32
		if i >= size {
			want = float32(i - size)
		}
		if got != want {
			t.Fatalf("push %d: Tap() = %v, want %v", i, got, want)
		}
		d.Push(float32(i))
	}
}

func TestReadDelays(t *testing.T) {
	d, _ := New(8)
	for i := 0; i < 8; i++ {
		d.Push(float32(i))
	}

	// Most recent sample was 7 at delay 1.
	for delay := 1; delay <= 8; delay++ {
		want := float32(8 - delay)
		if got := d.Read(delay); got != want {
			t.Errorf("Read(%d) = %v, want %v", delay, got, want)
		}
	}
}

func TestReset(t *testing.T) {
	d, _ := New(16)
	for i := 0; i < 20; i++ {
		d.Push(1)
	}

	d.Reset()

	for i := 0; i < 16; i++ {
		if got := d.Tap(); got != 0 {
			t.Fatalf("after reset: Tap() = %v, want 0", got)
		}
		d.Push(0)
	}
}
