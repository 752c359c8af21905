package windowing

import (
	"github.com/mjibson/go-dsp/window"
)

// Window produces coefficients for a signal of a given length
type Window interface {
	// Coefficients returns n coefficients. The slice may be cached and must not be modified.
	Coefficients(n int) []float64
	GetType() string
}

// Hann is a symmetric Hann window whose coefficients are cached per size
type Hann struct {
	size         int
	coefficients []float64
}

// NewHann creates a new Hann window pre-sized for size samples
func NewHann(size int) *Hann {
	h := &Hann{}
	h.generate(size)
	return h
}

// generate fills the cache using go-dsp's Hann definition, 0.5*(1-cos(2*pi*i/(n-1)))
func (h *Hann) generate(size int) {
	h.size = size
	switch {
	case size <= 0:
		h.coefficients = nil
	case size == 1:
		h.coefficients = []float64{1}
	default:
		h.coefficients = window.Hann(size)
	}
}

// Coefficients returns the window for n samples, regenerating the cache when n changes
func (h *Hann) Coefficients(n int) []float64 {
	if n != h.size || h.coefficients == nil && n > 0 {
		h.generate(n)
	}
	return h.coefficients
}

// GetType returns the window type
func (h *Hann) GetType() string {
	return "hann"
}
