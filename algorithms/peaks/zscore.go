package peaks

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// ZScoreDetector is the smoothed z-score signal detector. A point is high
// when it sits more than Threshold standard deviations above the mean of the
// trailing Lag filtered values. High points enter the filtered series
// weighted by Influence, so a long peak does not drag the baseline up with it.
type ZScoreDetector struct {
	Lag       int
	Threshold float64
	Influence float64
}

// NewZScoreDetector creates a smoothed z-score detector
func NewZScoreDetector(lag int, threshold, influence float64) *ZScoreDetector {
	return &ZScoreDetector{
		Lag:       lag,
		Threshold: threshold,
		Influence: influence,
	}
}

// Signals returns +1, -1 or 0 for each point. The first Lag points are 0.
func (d *ZScoreDetector) Signals(spectrum []float64) []int {
	signals := make([]int, len(spectrum))
	if d.Lag < 1 || len(spectrum) <= d.Lag {
		return signals
	}

	filtered := make([]float64, len(spectrum))
	copy(filtered, spectrum[:d.Lag])
	avg, std := stat.PopMeanStdDev(filtered[:d.Lag], nil)

	for i := d.Lag; i < len(spectrum); i++ {
		y := spectrum[i]
		if math.Abs(y-avg) > d.Threshold*std {
			if y > avg {
				signals[i] = 1
			} else {
				signals[i] = -1
			}
			filtered[i] = d.Influence*y + (1-d.Influence)*filtered[i-1]
		} else {
			filtered[i] = y
		}
		avg, std = stat.PopMeanStdDev(filtered[i-d.Lag+1:i+1], nil)
	}

	return signals
}

// DetectPeaks implements Detector
func (d *ZScoreDetector) DetectPeaks(spectrum []float64) []Peak {
	signals := d.Signals(spectrum)
	return reduceRuns(spectrum, func(i int) bool {
		return signals[i] > 0
	})
}
