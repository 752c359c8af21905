package pitch

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-pitch/algorithms/common"
	"github.com/RyanBlaney/sonido-pitch/algorithms/spectral"
	"github.com/RyanBlaney/sonido-pitch/algorithms/windowing"
	"github.com/RyanBlaney/sonido-pitch/logging"
)

// HannedFFTDetector picks the strongest bin of the Hann-windowed magnitude
// spectrum. It is accurate for pure tones and weak for signals whose
// fundamental is quieter than a harmonic.
type HannedFFTDetector struct {
	transform
	window   *windowing.Hann
	spectrum []float64
}

// NewHannedFFTDetector creates a detector sized for signals of signalLen samples
func NewHannedFFTDetector(signalLen int) *HannedFFTDetector {
	return NewHannedFFTDetectorWithWorkspace(spectral.NewWorkspace(signalLen))
}

// NewHannedFFTDetectorWithWorkspace creates a detector that owns ws
func NewHannedFFTDetectorWithWorkspace(ws *spectral.Workspace) *HannedFFTDetector {
	t := newTransform(ws, "hanned_fft_detector")
	return &HannedFFTDetector{
		transform: t,
		window:    windowing.NewHann(t.ws.SignalLen()),
	}
}

// Name implements Detector
func (d *HannedFFTDetector) Name() string {
	return string(AlgorithmHannedFFT)
}

func (d *HannedFFTDetector) mapper() LinearMapper {
	return LinearMapper{PaddedLen: d.ws.PaddedLen()}
}

// BinToFreq implements BinMapper
func (d *HannedFFTDetector) BinToFreq(bin, sampleRate float64) float64 {
	return d.mapper().BinToFreq(bin, sampleRate)
}

// FreqToBin implements BinMapper
func (d *HannedFFTDetector) FreqToBin(freq, sampleRate float64) float64 {
	return d.mapper().FreqToBin(freq, sampleRate)
}

// Spectrum returns |X|/sqrt(PaddedLen) over the requested bins. Without a
// range it covers [0, len(signal)/2).
func (d *HannedFFTDetector) Spectrum(signal []float64, sampleRate float64, freqRange *FreqRange) (int, []float64, error) {
	if err := validateInput(signal, sampleRate); err != nil {
		return 0, nil, err
	}
	if freqRange != nil {
		if err := freqRange.Validate(); err != nil {
			return 0, nil, err
		}
	}

	d.fit(len(signal))
	d.ws.Load(signal, d.window)
	d.ws.Forward()

	padded := d.ws.PaddedLen()
	lo, hi := 0, len(signal)/2
	if freqRange != nil {
		lo = common.RoundToIndex(d.FreqToBin(freqRange.Min, sampleRate), padded)
		hi = common.RoundToIndex(d.FreqToBin(freqRange.Max, sampleRate), padded)
	}
	if err := binRange(lo, hi); err != nil {
		return 0, nil, err
	}

	d.spectrum = d.ws.Values(d.spectrum, lo, hi, true)
	floats.Scale(1/math.Sqrt(float64(padded)), d.spectrum)
	return lo, d.spectrum, nil
}

// DetectPitchInRange implements Detector
func (d *HannedFFTDetector) DetectPitchInRange(signal []float64, sampleRate float64, freqRange FreqRange) (float64, error) {
	start, spectrum, err := d.Spectrum(signal, sampleRate, &freqRange)
	if err != nil {
		return 0, err
	}

	peak := floats.MaxIdx(spectrum)
	if !(spectrum[peak] > 0) {
		return 0, fmt.Errorf("%w: spectrum is silent", ErrNoPitchDetected)
	}

	point, err := common.InterpolatedPeakAt(spectrum, peak)
	if err != nil {
		return 0, err
	}

	freq := d.BinToFreq(point.X+float64(start), sampleRate)
	d.logger.Debug("pitch detected", logging.Fields{
		"frequency": freq,
		"peak_bin":  peak + start,
		"bins":      len(spectrum),
	})
	return freq, nil
}
