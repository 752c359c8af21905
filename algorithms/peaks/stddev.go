package peaks

import (
	"github.com/RyanBlaney/sonido-pitch/algorithms/common"
)

// StdDevDetector flags values more than Sigmas sample standard deviations
// above the mean. Each contiguous flagged run yields its maximum.
type StdDevDetector struct {
	Sigmas float64
}

// NewStdDevDetector creates a threshold detector
func NewStdDevDetector(sigmas float64) *StdDevDetector {
	return &StdDevDetector{Sigmas: sigmas}
}

// Threshold returns mean + Sigmas*stddev of spectrum
func (d *StdDevDetector) Threshold(spectrum []float64) float64 {
	return common.Mean(spectrum) + d.Sigmas*common.StandardDeviation(spectrum)
}

// DetectPeaks implements Detector
func (d *StdDevDetector) DetectPeaks(spectrum []float64) []Peak {
	switch len(spectrum) {
	case 0:
		return nil
	case 1:
		if spectrum[0] > 0 {
			return []Peak{{Bin: 0, Magnitude: spectrum[0]}}
		}
		return nil
	}

	threshold := d.Threshold(spectrum)
	return reduceRuns(spectrum, func(i int) bool {
		return spectrum[i] > threshold
	})
}
