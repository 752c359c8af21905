package tonal

import (
	"github.com/RyanBlaney/sonido-pitch/algorithms/pitch"
)

// DetectNote runs d over its default range and maps the result to a note
func DetectNote(d pitch.Detector, signal []float64, sampleRate float64) (NoteDetection, error) {
	freq, err := pitch.DetectPitch(d, signal, sampleRate)
	if err != nil {
		return NoteDetection{}, err
	}
	return NewNoteDetection(freq)
}

// DetectNoteInRange runs d over freqRange and maps the result to a note
func DetectNoteInRange(d pitch.Detector, signal []float64, sampleRate float64, freqRange pitch.FreqRange) (NoteDetection, error) {
	freq, err := d.DetectPitchInRange(signal, sampleRate, freqRange)
	if err != nil {
		return NoteDetection{}, err
	}
	return NewNoteDetection(freq)
}
