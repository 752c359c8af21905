package pitch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RyanBlaney/sonido-pitch/algorithms/peaks"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pitch.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("expected read error, got %v", err)
	}
	if cfg != nil {
		t.Errorf("expected nil config on error, got %+v", cfg)
	}
}

func TestLoadConfig_UnmarshalError(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, "signal_length: lots\n")
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, `
algorithm: power_cepstrum
signal_length: 8192
freq_range:
  min: 50
  max: 800
max_zero_crossing_rate: 2093
cepstrum:
  sigmas: 4
peaks:
  policy: zscore
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Algorithm != AlgorithmPowerCepstrum || cfg.SignalLength != 8192 {
		t.Errorf("algorithm/signal_length = %q/%d", cfg.Algorithm, cfg.SignalLength)
	}
	if cfg.FreqRange != (FreqRange{Min: 50, Max: 800}) {
		t.Errorf("freq_range = %+v", cfg.FreqRange)
	}
	if cfg.Cepstrum.Sigmas != 4 {
		t.Errorf("cepstrum.sigmas = %v, want 4", cfg.Cepstrum.Sigmas)
	}
	if cfg.Cepstrum.ProminenceThreshold != DefaultCepstrumParams().ProminenceThreshold {
		t.Errorf("unset prominence_threshold = %v, want default", cfg.Cepstrum.ProminenceThreshold)
	}
	if cfg.Peaks.Policy != peaks.PolicyZScore {
		t.Errorf("peaks.policy = %q, want %q", cfg.Peaks.Policy, peaks.PolicyZScore)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("unset log_level = %q, want info", cfg.LogLevel)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
	}{
		{"unknown algorithm", "algorithm: yin\n"},
		{"negative length", "signal_length: -1\n"},
		{"inverted range", "freq_range:\n  min: 900\n  max: 100\n"},
		{"bad log level", "log_level: loud\n"},
		{"negative zcr", "max_zero_crossing_rate: -5\n"},
		{"slope threshold", "autocorrelation:\n  slope_threshold: 1\n"},
		{"peak policy", "peaks:\n  policy: wavelet\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadConfig(writeTempConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestNewDetector(t *testing.T) {
	t.Parallel()
	for _, algo := range []Algorithm{AlgorithmHannedFFT, AlgorithmPowerCepstrum, AlgorithmAutocorrelation} {
		cfg := DefaultConfig()
		cfg.Algorithm = algo
		cfg.LogLevel = "debug"

		d, err := NewDetector(cfg)
		if err != nil {
			t.Fatalf("%s: NewDetector returned error: %v", algo, err)
		}
		if d.Name() != string(algo) {
			t.Errorf("Name() = %q, want %q", d.Name(), algo)
		}
		if _, gated := d.(*ZeroCrossingGate); gated {
			t.Errorf("%s: gate applied with max_zero_crossing_rate 0", algo)
		}
	}

	switch d, _ := NewDetector(DefaultConfig()); d.(type) {
	case *HannedFFTDetector:
	default:
		t.Errorf("default detector is %T, want *HannedFFTDetector", d)
	}

	cfg := DefaultConfig()
	cfg.MaxZeroCrossingRate = 2 * MaxFreq
	d, err := NewDetector(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, gated := d.(*ZeroCrossingGate); !gated {
		t.Errorf("detector is %T, want *ZeroCrossingGate", d)
	}

	cfg.Algorithm = "yin"
	if _, err := NewDetector(cfg); err == nil {
		t.Error("expected error for unknown algorithm")
	}
}
