package tonal

import (
	"fmt"

	"github.com/RyanBlaney/sonido-pitch/algorithms/common"
	"github.com/RyanBlaney/sonido-pitch/algorithms/peaks"
	"github.com/RyanBlaney/sonido-pitch/algorithms/pitch"
	"github.com/RyanBlaney/sonido-pitch/logging"
)

// DefaultHintSigmas is the threshold of the default candidate selector
const DefaultHintSigmas = 6.0

// HintedDetector returns the strongest peak whose note matches a hint
// instead of the strongest peak overall. It is useful for tuning one string
// while others ring.
type HintedDetector struct {
	detector pitch.SpectrumDetector
	selector peaks.Detector
	logger   logging.Logger
}

// NewHintedDetector wraps d. A nil selector uses a standard deviation
// threshold of DefaultHintSigmas.
func NewHintedDetector(d pitch.SpectrumDetector, selector peaks.Detector) *HintedDetector {
	if selector == nil {
		selector = peaks.NewStdDevDetector(DefaultHintSigmas)
	}
	return &HintedDetector{
		detector: d,
		selector: selector,
		logger:   logging.WithFields(logging.Fields{"component": "hinted_detector", "algorithm": d.Name()}),
	}
}

// DetectHinted searches the detector's default bins, the same ones
// Spectrum covers without a range. Candidates below pitch.MinFreq are skipped.
func (h *HintedDetector) DetectHinted(signal []float64, sampleRate float64, hint NoteName) (NoteDetection, error) {
	return h.detectHinted(signal, sampleRate, nil, hint)
}

// DetectHintedInRange scans candidates from strongest to weakest and returns
// the first one named hint
func (h *HintedDetector) DetectHintedInRange(signal []float64, sampleRate float64, freqRange pitch.FreqRange, hint NoteName) (NoteDetection, error) {
	return h.detectHinted(signal, sampleRate, &freqRange, hint)
}

func (h *HintedDetector) detectHinted(signal []float64, sampleRate float64, freqRange *pitch.FreqRange, hint NoteName) (NoteDetection, error) {
	if hint < 0 || hint >= numNotes {
		return NoteDetection{}, fmt.Errorf("%w: invalid hint %d", pitch.ErrIncorrectParameters, int(hint))
	}

	start, spectrum, err := h.detector.Spectrum(signal, sampleRate, freqRange)
	if err != nil {
		return NoteDetection{}, err
	}

	candidates := h.selector.DetectPeaks(spectrum)
	for rank, c := range candidates {
		note, err := NewNoteDetection(h.detector.BinToFreq(float64(c.Bin+start), sampleRate))
		if err != nil || note.NoteName != hint {
			continue
		}

		point, err := common.InterpolatedPeakAt(spectrum, c.Bin)
		if err != nil {
			return NoteDetection{}, err
		}
		note, err = NewNoteDetection(h.detector.BinToFreq(point.X+float64(start), sampleRate))
		if err != nil {
			return NoteDetection{}, err
		}

		h.logger.Debug("hint matched", logging.Fields{
			"hint":       hint.String(),
			"rank":       rank,
			"candidates": len(candidates),
			"frequency":  note.ActualFreq,
		})
		return note, nil
	}

	return NoteDetection{}, fmt.Errorf("%w: did not find pitch that matches hint %s among %d candidates",
		pitch.ErrNoPitchDetected, hint, len(candidates))
}
