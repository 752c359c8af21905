// Package pitch estimates the fundamental frequency of a signal with one of
// three spectral methods: a Hann-windowed magnitude spectrum, the power
// cepstrum, or the autocorrelation computed through the FFT.
//
// Every detector owns a transform workspace that is reused across calls, so
// a detector must not be shared between goroutines without synchronization.
// Results are bit-identical to those of a freshly constructed detector.
package pitch

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-pitch/algorithms/common"
	"github.com/RyanBlaney/sonido-pitch/algorithms/spectral"
	"github.com/RyanBlaney/sonido-pitch/logging"
)

// Error kinds, shared with the rest of the engine
var (
	ErrIncorrectParameters = common.ErrIncorrectParameters
	ErrNoPitchDetected     = common.ErrNoPitchDetected
	ErrUnexpected          = common.ErrUnexpected
)

const (
	MinFreq        = 32.7    // C1, lowest pitch mapped to a note
	MaxFreq        = 1046.50 // C6, highest pitch searched by default
	A4Freq         = 440.0
	MaxCentsOffset = 10.0 // Deviation still heard as in tune
	DefaultMinFreq = 20.0 // Lower bound used by DetectPitch
)

// FreqRange is a closed frequency interval in Hz
type FreqRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Validate checks 0 < Min < Max
func (r FreqRange) Validate() error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Max, 0) || r.Min <= 0 || r.Max <= r.Min {
		return fmt.Errorf("%w: invalid frequency range [%v, %v]", ErrIncorrectParameters, r.Min, r.Max)
	}
	return nil
}

// Detector estimates the pitch of a signal within a frequency range
type Detector interface {
	DetectPitchInRange(signal []float64, sampleRate float64, freqRange FreqRange) (float64, error)
	Name() string
}

// SpectrumDetector is a Detector that also exposes the array it searches and
// the mapping between that array's bins and Hz.
type SpectrumDetector interface {
	Detector
	BinMapper

	// Spectrum transforms signal and returns the searched slice together with
	// the absolute bin of its first element. A nil range selects the
	// algorithm's default bins. The slice is reused by the next call.
	Spectrum(signal []float64, sampleRate float64, freqRange *FreqRange) (int, []float64, error)
}

// DetectPitch searches from DefaultMinFreq up to the Nyquist frequency
func DetectPitch(d Detector, signal []float64, sampleRate float64) (float64, error) {
	return d.DetectPitchInRange(signal, sampleRate, FreqRange{Min: DefaultMinFreq, Max: sampleRate / 2})
}

func validateInput(signal []float64, sampleRate float64) error {
	if len(signal) == 0 {
		return fmt.Errorf("%w: signal is empty", ErrIncorrectParameters)
	}
	if math.IsNaN(sampleRate) || sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %v", ErrIncorrectParameters, sampleRate)
	}
	if floats.HasNaN(signal) || math.IsInf(floats.Max(signal), 1) || math.IsInf(floats.Min(signal), -1) {
		return fmt.Errorf("%w: signal contains non-finite samples", ErrIncorrectParameters)
	}
	return nil
}

// transform holds what every detector owns: its workspace and logger
type transform struct {
	ws     *spectral.Workspace
	logger logging.Logger
}

func newTransform(ws *spectral.Workspace, component string) transform {
	if ws == nil {
		ws = spectral.NewWorkspace(0)
	}
	return transform{
		ws:     ws,
		logger: logging.WithFields(logging.Fields{"component": component}),
	}
}

// Workspace returns the detector's transform workspace
func (t *transform) Workspace() *spectral.Workspace {
	return t.ws
}

// SetLogger replaces the detector's logger
func (t *transform) SetLogger(logger logging.Logger) {
	if logger == nil {
		logger = &logging.NoOpLogger{}
	}
	t.logger = logger
}

// fit swaps in a larger workspace when the signal does not fit the current one
func (t *transform) fit(signalLen int) {
	if t.ws.Fits(signalLen) {
		return
	}
	t.logger.Debug("growing transform workspace", logging.Fields{
		"signal_len": signalLen,
		"padded_len": t.ws.PaddedLen(),
	})
	t.ws = spectral.NewWorkspace(signalLen)
}

func binRange(lo, hi int) error {
	if hi <= lo {
		return fmt.Errorf("%w: frequency range yields no bins [%d, %d)", ErrIncorrectParameters, lo, hi)
	}
	return nil
}
