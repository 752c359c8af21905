package pitch

import (
	"fmt"

	"github.com/RyanBlaney/sonido-pitch/algorithms/spectral"
)

// ZeroCrossingGate rejects signals that cross zero more often than a real
// pitch would, before handing the rest to the wrapped detector.
type ZeroCrossingGate struct {
	SpectrumDetector
	maxRate float64
}

// NewZeroCrossingGate wraps d. maxRate is in crossings per second.
func NewZeroCrossingGate(d SpectrumDetector, maxRate float64) *ZeroCrossingGate {
	return &ZeroCrossingGate{SpectrumDetector: d, maxRate: maxRate}
}

// DetectPitchInRange implements Detector
func (g *ZeroCrossingGate) DetectPitchInRange(signal []float64, sampleRate float64, freqRange FreqRange) (float64, error) {
	if err := validateInput(signal, sampleRate); err != nil {
		return 0, err
	}
	if rate := spectral.NewZeroCrossingRate(sampleRate).Compute(signal); rate > g.maxRate {
		return 0, fmt.Errorf("%w: zero crossing rate %.1f/s exceeds %.1f/s", ErrNoPitchDetected, rate, g.maxRate)
	}
	return g.SpectrumDetector.DetectPitchInRange(signal, sampleRate, freqRange)
}
