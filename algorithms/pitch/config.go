package pitch

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/sonido-pitch/algorithms/peaks"
	"github.com/RyanBlaney/sonido-pitch/logging"
)

// Algorithm names a detection method
type Algorithm string

const (
	AlgorithmHannedFFT       Algorithm = "hanned_fft"
	AlgorithmPowerCepstrum   Algorithm = "power_cepstrum"
	AlgorithmAutocorrelation Algorithm = "autocorrelation"
)

// Config describes a detector and its tunables, loadable from YAML or JSON
type Config struct {
	Algorithm           Algorithm             `json:"algorithm" yaml:"algorithm"`                           // Detection method
	SignalLength        int                   `json:"signal_length" yaml:"signal_length"`                   // Expected samples per call, sizes the workspace
	FreqRange           FreqRange             `json:"freq_range" yaml:"freq_range"`                         // Search range in Hz
	LogLevel            string                `json:"log_level" yaml:"log_level"`                           // "debug", "info", "warn", "error"
	MaxZeroCrossingRate float64               `json:"max_zero_crossing_rate" yaml:"max_zero_crossing_rate"` // Crossings per second above which input is noise, 0 disables
	Cepstrum            CepstrumParams        `json:"cepstrum" yaml:"cepstrum"`
	Autocorrelation     AutocorrelationParams `json:"autocorrelation" yaml:"autocorrelation"`
	Peaks               peaks.Config          `json:"peaks" yaml:"peaks"` // Candidate selection for hint matching
}

// DefaultConfig returns the default detector configuration
func DefaultConfig() *Config {
	return &Config{
		Algorithm:       AlgorithmHannedFFT,
		SignalLength:    16384,
		FreqRange:       FreqRange{Min: MinFreq, Max: MaxFreq},
		LogLevel:        "info",
		Cepstrum:        DefaultCepstrumParams(),
		Autocorrelation: DefaultAutocorrelationParams(),
		Peaks:           peaks.DefaultConfig(),
	}
}

// LoadConfig reads a YAML file over the defaults and validates the result.
// An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks every field
func (c *Config) Validate() error {
	switch c.Algorithm {
	case AlgorithmHannedFFT, AlgorithmPowerCepstrum, AlgorithmAutocorrelation:
	default:
		return fmt.Errorf("unknown algorithm %q", c.Algorithm)
	}
	if c.SignalLength < 0 {
		return fmt.Errorf("signal_length must be >= 0, got %d", c.SignalLength)
	}
	if err := c.FreqRange.Validate(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MaxZeroCrossingRate < 0 || math.IsNaN(c.MaxZeroCrossingRate) {
		return fmt.Errorf("max_zero_crossing_rate must be >= 0, got %v", c.MaxZeroCrossingRate)
	}
	if c.Cepstrum.Sigmas < 0 {
		return fmt.Errorf("cepstrum.sigmas must be >= 0, got %v", c.Cepstrum.Sigmas)
	}
	if c.Cepstrum.ProminenceThreshold < 0 {
		return fmt.Errorf("cepstrum.prominence_threshold must be >= 0, got %v", c.Cepstrum.ProminenceThreshold)
	}
	if c.Autocorrelation.SlopeThreshold < 0 || c.Autocorrelation.SlopeThreshold >= 1 {
		return fmt.Errorf("autocorrelation.slope_threshold must be within [0, 1), got %v", c.Autocorrelation.SlopeThreshold)
	}
	return c.Peaks.Validate()
}

// NewDetector builds the configured detector. Its logger carries the
// configured level without touching the global logger.
func NewDetector(c *Config) (SpectrumDetector, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	level, _ := logging.ParseLevel(c.LogLevel)

	var d SpectrumDetector
	var t *transform
	switch c.Algorithm {
	case AlgorithmPowerCepstrum:
		cd := NewPowerCepstrumDetector(c.SignalLength, c.Cepstrum)
		d, t = cd, &cd.transform
	case AlgorithmAutocorrelation:
		ad := NewAutocorrelationDetector(c.SignalLength, c.Autocorrelation)
		d, t = ad, &ad.transform
	default:
		hd := NewHannedFFTDetector(c.SignalLength)
		d, t = hd, &hd.transform
	}
	t.logger.SetLevel(level)

	if c.MaxZeroCrossingRate > 0 {
		d = NewZeroCrossingGate(d, c.MaxZeroCrossingRate)
	}
	return d, nil
}
