package pitch

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-pitch/algorithms/common"
	"github.com/RyanBlaney/sonido-pitch/algorithms/peaks"
	"github.com/RyanBlaney/sonido-pitch/algorithms/spectral"
	"github.com/RyanBlaney/sonido-pitch/logging"
)

// logPowerFloor keeps log(|X|^2) finite for silent bins
const logPowerFloor = 1e-10

// CepstrumParams tunes candidate selection in quefrency space
type CepstrumParams struct {
	Sigmas              float64 `json:"sigmas" yaml:"sigmas"`                             // Peak threshold in standard deviations
	ProminenceThreshold float64 `json:"prominence_threshold" yaml:"prominence_threshold"` // Required ratio of best to second-best peak
}

// DefaultCepstrumParams returns the empirically tuned defaults
func DefaultCepstrumParams() CepstrumParams {
	return CepstrumParams{
		Sigmas:              6,
		ProminenceThreshold: 1.25,
	}
}

// PowerCepstrumDetector searches the power cepstrum, the inverse transform
// of log(|X|^2). The period of a harmonic series shows up as one quefrency
// peak, so it handles harmonic-rich tones well and pure tones poorly.
type PowerCepstrumDetector struct {
	transform
	params   CepstrumParams
	peaks    *peaks.StdDevDetector
	spectrum []float64
}

// NewPowerCepstrumDetector creates a detector sized for signals of signalLen samples
func NewPowerCepstrumDetector(signalLen int, params CepstrumParams) *PowerCepstrumDetector {
	return NewPowerCepstrumDetectorWithWorkspace(spectral.NewWorkspace(signalLen), params)
}

// NewPowerCepstrumDetectorWithWorkspace creates a detector that owns ws
func NewPowerCepstrumDetectorWithWorkspace(ws *spectral.Workspace, params CepstrumParams) *PowerCepstrumDetector {
	return &PowerCepstrumDetector{
		transform: newTransform(ws, "power_cepstrum_detector"),
		params:    params,
		peaks:     peaks.NewStdDevDetector(params.Sigmas),
	}
}

// Name implements Detector
func (d *PowerCepstrumDetector) Name() string {
	return string(AlgorithmPowerCepstrum)
}

// BinToFreq implements BinMapper
func (d *PowerCepstrumDetector) BinToFreq(bin, sampleRate float64) float64 {
	return ReciprocalMapper{}.BinToFreq(bin, sampleRate)
}

// FreqToBin implements BinMapper
func (d *PowerCepstrumDetector) FreqToBin(freq, sampleRate float64) float64 {
	return ReciprocalMapper{}.FreqToBin(freq, sampleRate)
}

func logPower(c complex128) complex128 {
	re, im := real(c), imag(c)
	return complex(math.Log(re*re+im*im+logPowerFloor), 0)
}

// Spectrum returns |c|^2 of the cepstrum over the requested quefrencies.
// Without a range it covers [3, len(signal)).
func (d *PowerCepstrumDetector) Spectrum(signal []float64, sampleRate float64, freqRange *FreqRange) (int, []float64, error) {
	if err := validateInput(signal, sampleRate); err != nil {
		return 0, nil, err
	}
	if freqRange != nil {
		if err := freqRange.Validate(); err != nil {
			return 0, nil, err
		}
	}
	// The floored log of silence is flat and its cepstrum is rounding noise
	if floats.Norm(signal, math.Inf(1)) == 0 {
		return 0, nil, fmt.Errorf("%w: signal has no energy", ErrNoPitchDetected)
	}

	d.fit(len(signal))
	d.ws.Load(signal, nil)
	d.ws.Forward()
	d.ws.Map(logPower)
	d.ws.Inverse()

	padded := d.ws.PaddedLen()
	lo, hi := 3, len(signal)
	if freqRange != nil {
		lo, hi = reciprocalRange(*freqRange, sampleRate, padded)
	}
	if err := binRange(lo, hi); err != nil {
		return 0, nil, err
	}

	d.spectrum = d.ws.Values(d.spectrum, lo, hi, false)
	return lo, d.spectrum, nil
}

// DetectPitchInRange implements Detector
func (d *PowerCepstrumDetector) DetectPitchInRange(signal []float64, sampleRate float64, freqRange FreqRange) (float64, error) {
	start, spectrum, err := d.Spectrum(signal, sampleRate, &freqRange)
	if err != nil {
		return 0, err
	}
	return d.detectInSpectrum(start, spectrum, sampleRate)
}

func (d *PowerCepstrumDetector) detectInSpectrum(start int, spectrum []float64, sampleRate float64) (float64, error) {
	candidates := d.peaks.DetectPeaks(spectrum)
	best, err := selectProminent(candidates, d.params.ProminenceThreshold)
	if err != nil {
		return 0, err
	}

	point, err := common.InterpolatedPeakAt(spectrum, best.Bin)
	if err != nil {
		return 0, err
	}

	freq := d.BinToFreq(point.X+float64(start), sampleRate)
	d.logger.Debug("pitch detected", logging.Fields{
		"frequency":  freq,
		"quefrency":  point.X + float64(start),
		"candidates": len(candidates),
	})
	return freq, nil
}

// selectProminent accepts the strongest candidate when it is the only one or
// beats the runner-up by more than threshold
func selectProminent(candidates []peaks.Peak, threshold float64) (peaks.Peak, error) {
	switch len(candidates) {
	case 0:
		return peaks.Peak{}, fmt.Errorf("%w: no cepstral peak above threshold", ErrNoPitchDetected)
	case 1:
		return candidates[0], nil
	}

	best, second := candidates[0], candidates[1]
	if second.Magnitude <= 0 || best.Magnitude/second.Magnitude > threshold {
		return best, nil
	}
	return peaks.Peak{}, fmt.Errorf("%w: dominant pitch did not exceed prominence threshold (%.3f <= %.3f)",
		ErrNoPitchDetected, best.Magnitude/second.Magnitude, threshold)
}
