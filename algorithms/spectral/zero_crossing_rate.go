package spectral

import (
	"math"

	"github.com/RyanBlaney/sonido-pitch/algorithms/common"
)

// ZeroCrossingRate counts sign changes of a signal. Zero counts as positive.
// A high rate relative to the highest expected pitch indicates noise.
type ZeroCrossingRate struct {
	sampleRate float64
}

// NewZeroCrossingRate creates a new zero crossing rate calculator
func NewZeroCrossingRate(sampleRate float64) *ZeroCrossingRate {
	return &ZeroCrossingRate{sampleRate: sampleRate}
}

// Crossings returns the number of sign changes between consecutive samples
func Crossings(frame []float64) int {
	var sum float64
	for i := 1; i < len(frame); i++ {
		sum += math.Abs(common.Signum(frame[i]) - common.Signum(frame[i-1]))
	}
	return int(sum / 2)
}

// Compute returns the rate in crossings per second, sampleRate/len * crossings
func (zcr *ZeroCrossingRate) Compute(frame []float64) float64 {
	if len(frame) < 2 {
		return 0.0
	}
	return zcr.sampleRate / float64(len(frame)) * float64(Crossings(frame))
}
