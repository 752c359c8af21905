// Package tonal maps frequencies onto equal-tempered notes and picks the
// detected peak that matches a requested note.
package tonal

import (
	"fmt"
	"math"
	"strings"

	"github.com/RyanBlaney/sonido-pitch/algorithms/pitch"
)

// NoteName is one of the 12 pitch classes, counted in semitones from A
type NoteName int

const (
	A NoteName = iota
	ASharp
	B
	C
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
)

const numNotes = 12

var noteNames = [numNotes]string{"A", "A#", "B", "C", "C#", "D", "D#", "E", "F", "F#", "G", "G#"}

var flatNames = map[string]NoteName{
	"BB": ASharp,
	"DB": CSharp,
	"EB": DSharp,
	"GB": FSharp,
	"AB": GSharp,
}

func (n NoteName) String() string {
	if n < 0 || n >= numNotes {
		return fmt.Sprintf("NoteName(%d)", int(n))
	}
	return noteNames[n]
}

// ParseNoteName accepts sharp spellings ("C#") and the common flats ("Bb")
func ParseNoteName(s string) (NoteName, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	upper = strings.ReplaceAll(upper, "♯", "#")
	upper = strings.ReplaceAll(upper, "♭", "B")
	for i, name := range noteNames {
		if upper == name {
			return NoteName(i), nil
		}
	}
	if n, ok := flatNames[upper]; ok {
		return n, nil
	}
	return 0, fmt.Errorf("%w: unknown note name %q", pitch.ErrIncorrectParameters, s)
}

// MarshalText encodes the sharp spelling
func (n NoteName) MarshalText() ([]byte, error) {
	if n < 0 || n >= numNotes {
		return nil, fmt.Errorf("invalid note name %d", int(n))
	}
	return []byte(noteNames[n]), nil
}

// UnmarshalText accepts anything ParseNoteName does
func (n *NoteName) UnmarshalText(text []byte) error {
	parsed, err := ParseNoteName(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// offset returns the name k semitones away
func (n NoteName) offset(k int) NoteName {
	return NoteName(mod(int(n)+k, numNotes))
}

// NoteDetection places a frequency on the equal-tempered scale around A4 = 440 Hz
type NoteDetection struct {
	ActualFreq       float64  `json:"actual_freq"`  // Input frequency in Hz
	NoteName         NoteName `json:"note_name"`    // Nearest note
	NoteFreq         float64  `json:"note_freq"`    // Exact frequency of the nearest note
	Octave           int      `json:"octave"`       // floor(5 + (steps-2)/12) on the unrounded step
	CentsOffset      float64  `json:"cents_offset"` // ActualFreq relative to NoteFreq, within [-50, 50]
	PreviousNoteName NoteName `json:"previous_note_name"`
	NextNoteName     NoteName `json:"next_note_name"`
	InTune           bool     `json:"in_tune"` // |CentsOffset| < MaxCentsOffset
}

// NewNoteDetection maps freq onto the nearest note. Frequencies below
// pitch.MinFreq have no note.
func NewNoteDetection(freq float64) (NoteDetection, error) {
	if math.IsNaN(freq) || math.IsInf(freq, 0) || freq < pitch.MinFreq {
		return NoteDetection{}, fmt.Errorf("%w: frequency %v is below %v Hz", pitch.ErrIncorrectParameters, freq, pitch.MinFreq)
	}

	steps := 12 * math.Log2(freq/pitch.A4Freq)
	rounded := math.Round(steps)
	semitones := int(rounded)
	cents := (steps - rounded) * 100

	name := NoteName(mod(semitones, numNotes))
	return NoteDetection{
		ActualFreq:       freq,
		NoteName:         name,
		NoteFreq:         pitch.A4Freq * math.Exp2(rounded/12),
		Octave:           int(math.Floor(5 + (steps-2)/12)),
		CentsOffset:      cents,
		PreviousNoteName: name.offset(-1),
		NextNoteName:     name.offset(1),
		InTune:           math.Abs(cents) < pitch.MaxCentsOffset,
	}, nil
}

func (n NoteDetection) String() string {
	return fmt.Sprintf("%s%d %+.1f cents (%.2f Hz)", n.NoteName, n.Octave, n.CentsOffset, n.ActualFreq)
}

func mod(a, b int) int {
	return ((a % b) + b) % b
}
