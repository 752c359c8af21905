// Package peaks selects statistically significant maxima from a magnitude array
package peaks

import (
	"fmt"
	"sort"
	"strings"
)

// Peak is a bin promoted to candidate status
type Peak struct {
	Bin       int     `json:"bin"`       // Index into the searched array
	Magnitude float64 `json:"magnitude"` // Value at Bin
}

// Detector finds candidate peaks, sorted by descending magnitude
type Detector interface {
	DetectPeaks(spectrum []float64) []Peak
}

// Policy names a peak-finding algorithm
type Policy string

const (
	PolicyStdDev Policy = "stddev"
	PolicyZScore Policy = "zscore"
)

// Config selects and tunes a peak detector
type Config struct {
	Policy    Policy  `json:"policy" yaml:"policy"`       // "stddev" or "zscore"
	Sigmas    float64 `json:"sigmas" yaml:"sigmas"`       // Standard deviations above the mean (stddev)
	Lag       int     `json:"lag" yaml:"lag"`             // Trailing window length (zscore)
	Threshold float64 `json:"threshold" yaml:"threshold"` // Z-score that marks a point high (zscore)
	Influence float64 `json:"influence" yaml:"influence"` // Weight of high points in the trailing stats, 0-1 (zscore)
}

// DefaultConfig returns the threshold policy used for hint matching
func DefaultConfig() Config {
	return Config{
		Policy:    PolicyStdDev,
		Sigmas:    6,
		Lag:       10,
		Threshold: 5,
		Influence: 0.5,
	}
}

// Validate checks the parameters of the selected policy
func (c Config) Validate() error {
	switch Policy(strings.ToLower(string(c.Policy))) {
	case PolicyStdDev:
		if c.Sigmas < 0 {
			return fmt.Errorf("peaks.sigmas must be >= 0, got %v", c.Sigmas)
		}
	case PolicyZScore:
		if c.Lag < 2 {
			return fmt.Errorf("peaks.lag must be >= 2, got %d", c.Lag)
		}
		if c.Threshold <= 0 {
			return fmt.Errorf("peaks.threshold must be positive, got %v", c.Threshold)
		}
		if c.Influence < 0 || c.Influence > 1 {
			return fmt.Errorf("peaks.influence must be within [0, 1], got %v", c.Influence)
		}
	default:
		return fmt.Errorf("unknown peak policy %q", c.Policy)
	}
	return nil
}

// New builds the detector described by c
func New(c Config) (Detector, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if Policy(strings.ToLower(string(c.Policy))) == PolicyZScore {
		return NewZScoreDetector(c.Lag, c.Threshold, c.Influence), nil
	}
	return NewStdDevDetector(c.Sigmas), nil
}

// reduceRuns collapses each run of flagged indices to its largest value
func reduceRuns(spectrum []float64, flagged func(i int) bool) []Peak {
	var peaks []Peak
	inRun := false
	var best Peak

	for i, v := range spectrum {
		if !flagged(i) {
			if inRun {
				peaks = append(peaks, best)
				inRun = false
			}
			continue
		}
		if !inRun || v > best.Magnitude {
			best = Peak{Bin: i, Magnitude: v}
		}
		inRun = true
	}
	if inRun {
		peaks = append(peaks, best)
	}

	sortDescending(peaks)
	return peaks
}

func sortDescending(peaks []Peak) {
	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].Magnitude > peaks[j].Magnitude
	})
}
