package spectral

import (
	"fmt"
	"iter"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/RyanBlaney/sonido-pitch/algorithms/common"
	"github.com/RyanBlaney/sonido-pitch/algorithms/windowing"
)

// MinPaddedLen is the smallest transform size a Workspace uses
const MinPaddedLen = 1024

// Workspace owns a zero-padded complex buffer, a scratch buffer of the same
// length and the transform plan for that length. Each detection reloads it,
// so one Workspace serves many calls without reallocating. It is not safe
// for concurrent use.
type Workspace struct {
	signalLen int
	space     []complex128
	scratch   []complex128
	fft       *fourier.CmplxFFT
}

// NewWorkspace creates a workspace padded to the next power of two >= max(signalLen, MinPaddedLen)
func NewWorkspace(signalLen int) *Workspace {
	padded := common.NextPowerOfTwo(max(signalLen, MinPaddedLen))
	return &Workspace{
		signalLen: max(signalLen, 0),
		space:     make([]complex128, padded),
		scratch:   make([]complex128, padded),
		fft:       fourier.NewCmplxFFT(padded),
	}
}

// SignalLen returns the length of the last loaded signal
func (w *Workspace) SignalLen() int {
	return w.signalLen
}

// PaddedLen returns the transform length
func (w *Workspace) PaddedLen() int {
	return len(w.space)
}

// Fits reports whether a signal of n samples can be loaded
func (w *Workspace) Fits(n int) bool {
	return n <= len(w.space)
}

// Load copies signal into the real parts of the buffer, zeroes everything
// else and multiplies the signal part by win when win is non-nil. It panics
// when the signal is longer than the padded length.
func (w *Workspace) Load(signal []float64, win windowing.Window) {
	if len(signal) > len(w.space) {
		panic(fmt.Sprintf("spectral: signal of %d samples does not fit workspace of %d", len(signal), len(w.space)))
	}

	w.signalLen = len(signal)
	for i, s := range signal {
		w.space[i] = complex(s, 0)
	}
	clear(w.space[len(signal):])

	if win == nil || len(signal) == 0 {
		return
	}
	coeffs := win.Coefficients(len(signal))
	for i, c := range coeffs {
		w.space[i] = complex(real(w.space[i])*c, 0)
	}
}

// Forward replaces the buffer with its discrete Fourier transform
func (w *Workspace) Forward() {
	w.fft.Coefficients(w.scratch, w.space)
	copy(w.space, w.scratch)
}

// Inverse replaces the buffer with its unnormalized inverse transform, so
// Inverse after Forward scales the input by PaddedLen.
func (w *Workspace) Inverse() {
	w.fft.Sequence(w.scratch, w.space)
	copy(w.space, w.scratch)
}

// Map applies fn to every slot of the buffer
func (w *Workspace) Map(fn func(complex128) complex128) {
	for i, c := range w.space {
		w.space[i] = fn(c)
	}
}

// Space exposes the raw buffer. It is overwritten by the next Load.
func (w *Workspace) Space() []complex128 {
	return w.space
}

// FrequencyDomain yields (value, phase) for every slot, where value is the
// squared magnitude, or the magnitude itself when squareRoot is set.
func (w *Workspace) FrequencyDomain(squareRoot bool) iter.Seq2[float64, float64] {
	return func(yield func(float64, float64) bool) {
		for _, c := range w.space {
			if !yield(magnitude(c, squareRoot), cmplx.Phase(c)) {
				return
			}
		}
	}
}

// Values writes the FrequencyDomain values of slots [lo, hi) into dst,
// growing it only when its capacity is short, and returns it.
func (w *Workspace) Values(dst []float64, lo, hi int, squareRoot bool) []float64 {
	if lo < 0 || hi > len(w.space) || lo > hi {
		panic(fmt.Sprintf("spectral: slot range [%d, %d) outside workspace of %d", lo, hi, len(w.space)))
	}
	dst = dst[:0]
	for _, c := range w.space[lo:hi] {
		dst = append(dst, magnitude(c, squareRoot))
	}
	return dst
}

func magnitude(c complex128, squareRoot bool) float64 {
	re, im := real(c), imag(c)
	power := re*re + im*im
	if squareRoot {
		return math.Sqrt(power)
	}
	return power
}
