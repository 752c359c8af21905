package common

import (
	"fmt"
)

// FFTPoint is a possibly fractional bin position and the magnitude fitted there
type FFTPoint struct {
	X float64 `json:"x"` // Bin position
	Y float64 `json:"y"` // Magnitude at X
}

// InterpolatedPeakAt refines the integer peak at idx to sub-bin resolution.
//
// The neighborhood grows outward from idx while values keep decreasing (or
// stay level) and stay positive, then FitPeak is applied to it. An idx
// outside the spectrum yields an empty neighborhood.
func InterpolatedPeakAt(spectrum []float64, idx int) (FFTPoint, error) {
	if idx < 0 || idx >= len(spectrum) {
		return FitPeak(nil, nil)
	}

	lo := idx
	for lo > 0 && spectrum[lo-1] > 0 && spectrum[lo-1] <= spectrum[lo] {
		lo--
	}

	hi := idx
	for hi < len(spectrum)-1 && spectrum[hi+1] > 0 && spectrum[hi+1] <= spectrum[hi] {
		hi++
	}

	xs := make([]float64, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		xs = append(xs, float64(i))
	}
	return FitPeak(xs, spectrum[lo:hi+1])
}

// FitPeak reduces a peak neighborhood to a single point. One point is
// returned as is, two points yield the larger one (the second on a tie),
// and three or more are fitted with a Gaussian whose center and height
// become the point.
func FitPeak(xs, ys []float64) (FFTPoint, error) {
	if len(xs) != len(ys) {
		return FFTPoint{}, fmt.Errorf("%w: got %d x values and %d y values", ErrIncorrectParameters, len(xs), len(ys))
	}

	switch len(xs) {
	case 0:
		return FFTPoint{}, fmt.Errorf("%w: expected at least one x value", ErrIncorrectParameters)
	case 1:
		return FFTPoint{X: xs[0], Y: ys[0]}, nil
	case 2:
		if ys[1] >= ys[0] {
			return FFTPoint{X: xs[1], Y: ys[1]}, nil
		}
		return FFTPoint{X: xs[0], Y: ys[0]}, nil
	}

	g, err := FitGaussian(xs, ys)
	if err != nil {
		return FFTPoint{}, err
	}
	return FFTPoint{X: g.Mu, Y: g.Amplitude}, nil
}
