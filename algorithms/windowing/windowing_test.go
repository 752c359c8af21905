package windowing

import (
	"math"
	"testing"
)

func TestHannCoefficients(t *testing.T) {
	t.Parallel()
	h := NewHann(5)
	want := []float64{0, 0.5, 1, 0.5, 0}
	got := h.Coefficients(5)
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("coefficient %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestHannRegeneratesOnSizeChange(t *testing.T) {
	t.Parallel()
	h := NewHann(4)
	if n := len(h.Coefficients(9)); n != 9 {
		t.Fatalf("len = %d, want 9", n)
	}
	if h.GetType() != "hann" {
		t.Errorf("GetType() = %q, want hann", h.GetType())
	}
	if c := h.Coefficients(1); len(c) != 1 || c[0] != 1 {
		t.Errorf("single-sample window = %v, want [1]", c)
	}
}
