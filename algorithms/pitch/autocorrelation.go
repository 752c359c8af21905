package pitch

import (
	"fmt"

	"github.com/RyanBlaney/sonido-pitch/algorithms/common"
	"github.com/RyanBlaney/sonido-pitch/algorithms/spectral"
	"github.com/RyanBlaney/sonido-pitch/logging"
)

// AutocorrelationParams tunes the lag scan
type AutocorrelationParams struct {
	// SlopeThreshold ends the initial decay from lag 0. Values above it at
	// the start of the lag range are skipped before peaks are searched.
	SlopeThreshold float64 `json:"slope_threshold" yaml:"slope_threshold"`
}

// DefaultAutocorrelationParams returns the empirically tuned defaults
func DefaultAutocorrelationParams() AutocorrelationParams {
	return AutocorrelationParams{SlopeThreshold: 0.001}
}

// AutocorrelationDetector finds the pitch period as the strongest
// autocorrelation peak. The autocorrelation is the inverse transform of the
// power spectrum (Wiener-Khinchin), normalized by its value at lag 0.
type AutocorrelationDetector struct {
	transform
	params   AutocorrelationParams
	spectrum []float64
}

// NewAutocorrelationDetector creates a detector sized for signals of signalLen samples
func NewAutocorrelationDetector(signalLen int, params AutocorrelationParams) *AutocorrelationDetector {
	return NewAutocorrelationDetectorWithWorkspace(spectral.NewWorkspace(signalLen), params)
}

// NewAutocorrelationDetectorWithWorkspace creates a detector that owns ws
func NewAutocorrelationDetectorWithWorkspace(ws *spectral.Workspace, params AutocorrelationParams) *AutocorrelationDetector {
	return &AutocorrelationDetector{
		transform: newTransform(ws, "autocorrelation_detector"),
		params:    params,
	}
}

// Name implements Detector
func (d *AutocorrelationDetector) Name() string {
	return string(AlgorithmAutocorrelation)
}

// BinToFreq implements BinMapper
func (d *AutocorrelationDetector) BinToFreq(bin, sampleRate float64) float64 {
	return ReciprocalMapper{}.BinToFreq(bin, sampleRate)
}

// FreqToBin implements BinMapper
func (d *AutocorrelationDetector) FreqToBin(freq, sampleRate float64) float64 {
	return ReciprocalMapper{}.FreqToBin(freq, sampleRate)
}

func powerSpectralDensity(c complex128) complex128 {
	re, im := real(c), imag(c)
	return complex(re*re+im*im, 0)
}

// Spectrum returns r[k]/r[0] over the requested lags. Without a range it
// covers the lags of [MinFreq, MaxFreq].
func (d *AutocorrelationDetector) Spectrum(signal []float64, sampleRate float64, freqRange *FreqRange) (int, []float64, error) {
	if err := validateInput(signal, sampleRate); err != nil {
		return 0, nil, err
	}
	r := FreqRange{Min: MinFreq, Max: MaxFreq}
	if freqRange != nil {
		r = *freqRange
	}
	if err := r.Validate(); err != nil {
		return 0, nil, err
	}

	d.fit(len(signal))
	d.ws.Load(signal, nil)
	d.ws.Forward()
	d.ws.Map(powerSpectralDensity)
	d.ws.Inverse()

	lo, hi := reciprocalRange(r, sampleRate, d.ws.PaddedLen())
	if err := binRange(lo, hi); err != nil {
		return 0, nil, err
	}

	space := d.ws.Space()
	r0 := real(space[0])
	if !(r0 > 0) {
		return 0, nil, fmt.Errorf("%w: signal has no energy", ErrNoPitchDetected)
	}

	d.spectrum = d.spectrum[:0]
	for _, c := range space[lo:hi] {
		d.spectrum = append(d.spectrum, real(c)/r0)
	}
	return lo, d.spectrum, nil
}

// DetectPitchInRange implements Detector
func (d *AutocorrelationDetector) DetectPitchInRange(signal []float64, sampleRate float64, freqRange FreqRange) (float64, error) {
	start, spectrum, err := d.Spectrum(signal, sampleRate, &freqRange)
	if err != nil {
		return 0, err
	}

	best, runs, err := d.strongestRun(start, spectrum)
	if err != nil {
		return 0, err
	}
	if runs == 0 {
		return 0, fmt.Errorf("%w: no positive autocorrelation peak", ErrNoPitchDetected)
	}

	freq := d.BinToFreq(best.X, sampleRate)
	d.logger.Debug("pitch detected", logging.Fields{
		"frequency": freq,
		"lag":       best.X,
		"runs":      runs,
	})
	return freq, nil
}

// strongestRun skips the decay from lag 0, then fits every run of
// non-negative values between negative stretches and keeps the fit with
// the largest amplitude. Fits centered outside their run are dropped, as is
// a final run cut off while rising. X of the result is an absolute lag.
func (d *AutocorrelationDetector) strongestRun(start int, values []float64) (common.FFTPoint, int, error) {
	i := 0
	for i < len(values) && values[i] > d.params.SlopeThreshold {
		i++
	}

	var best common.FFTPoint
	runs := 0
	xs := make([]float64, 0, 64)
	for {
		for i < len(values) && values[i] <= 0 {
			i++
		}
		runStart := i
		for i < len(values) && values[i] >= 0 {
			i++
		}
		if runStart == i {
			break
		}

		run := values[runStart:i]
		// still rising where the lag range ends, its peak lies beyond it
		if i == len(values) && len(run) > 1 && run[len(run)-1] >= run[len(run)-2] {
			break
		}

		xs = xs[:0]
		for lag := runStart; lag < i; lag++ {
			xs = append(xs, float64(lag+start))
		}
		point, err := common.FitPeak(xs, run)
		if err != nil {
			return common.FFTPoint{}, runs, err
		}
		if point.X < xs[0] || point.X > xs[len(xs)-1] {
			continue
		}
		if runs == 0 || point.Y > best.Y {
			best = point
		}
		runs++
	}

	return best, runs, nil
}
