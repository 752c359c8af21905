package tonal

import (
	"errors"
	"fmt"
	"time"

	"github.com/RyanBlaney/sonido-pitch/algorithms/common"
	"github.com/RyanBlaney/sonido-pitch/algorithms/pitch"
	"github.com/RyanBlaney/sonido-pitch/logging"
)

// TrackedNote is the note detected in one frame of a stream
type TrackedNote struct {
	Offset int           `json:"offset"` // Stream sample index of the frame start
	Time   time.Duration `json:"time"`   // Offset as elapsed time
	Note   NoteDetection `json:"note"`
}

// Tracker feeds chunks of a sample stream, such as capture callbacks, through
// a sliding window and detects one note per complete frame. Frames without a
// pitch are skipped.
type Tracker struct {
	detector   pitch.Detector
	window     *common.SlidingWindow
	sampleRate float64
	freqRange  pitch.FreqRange
	logger     logging.Logger
}

// NewTracker creates a tracker searching [pitch.MinFreq, pitch.MaxFreq]
func NewTracker(d pitch.Detector, sampleRate float64, windowSize, hopSize int) (*Tracker, error) {
	window, err := common.NewSlidingWindow(windowSize, hopSize)
	if err != nil {
		return nil, err
	}
	if !(sampleRate > 0) {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %v", pitch.ErrIncorrectParameters, sampleRate)
	}
	return &Tracker{
		detector:   d,
		window:     window,
		sampleRate: sampleRate,
		freqRange:  pitch.FreqRange{Min: pitch.MinFreq, Max: pitch.MaxFreq},
		logger: logging.WithFields(logging.Fields{
			"component":   "note_tracker",
			"algorithm":   d.Name(),
			"window_size": windowSize,
			"hop_size":    hopSize,
		}),
	}, nil
}

// SetRange narrows the search range of subsequent frames
func (t *Tracker) SetRange(r pitch.FreqRange) error {
	if err := r.Validate(); err != nil {
		return err
	}
	t.freqRange = r
	return nil
}

// Push consumes samples and returns the notes of the frames they complete.
// Any failure other than pitch.ErrNoPitchDetected aborts the push.
func (t *Tracker) Push(samples []float64) ([]TrackedNote, error) {
	var notes []TrackedNote
	err := t.window.Push(samples, func(offset int, frame []float64) error {
		freq, err := t.detector.DetectPitchInRange(frame, t.sampleRate, t.freqRange)
		if errors.Is(err, pitch.ErrNoPitchDetected) {
			t.logger.Debug("no pitch in frame", logging.Fields{"offset": offset, "reason": err.Error()})
			return nil
		}
		if err != nil {
			return err
		}

		note, err := NewNoteDetection(freq)
		if err != nil {
			t.logger.Debug("pitch has no note", logging.Fields{"offset": offset, "frequency": freq})
			return nil
		}
		notes = append(notes, TrackedNote{
			Offset: offset,
			Time:   time.Duration(float64(offset) / t.sampleRate * float64(time.Second)),
			Note:   note,
		})
		return nil
	})
	return notes, err
}

// Reset forgets buffered samples and restarts offsets at 0
func (t *Tracker) Reset() {
	t.window.Reset()
}
