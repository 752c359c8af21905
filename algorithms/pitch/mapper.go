package pitch

import "github.com/RyanBlaney/sonido-pitch/algorithms/common"

// BinMapper converts between a bin of a detector's searched array and Hz.
// The two methods are inverses of each other.
type BinMapper interface {
	BinToFreq(bin, sampleRate float64) float64
	FreqToBin(freq, sampleRate float64) float64
}

// LinearMapper maps FFT bins, freq = bin * sampleRate / PaddedLen
type LinearMapper struct {
	PaddedLen int
}

func (m LinearMapper) BinToFreq(bin, sampleRate float64) float64 {
	return bin * sampleRate / float64(m.PaddedLen)
}

func (m LinearMapper) FreqToBin(freq, sampleRate float64) float64 {
	return freq * float64(m.PaddedLen) / sampleRate
}

// ReciprocalMapper maps quefrency or lag bins, freq = sampleRate / bin
type ReciprocalMapper struct{}

func (ReciprocalMapper) BinToFreq(bin, sampleRate float64) float64 {
	return sampleRate / bin
}

func (ReciprocalMapper) FreqToBin(freq, sampleRate float64) float64 {
	return sampleRate / freq
}

// reciprocalRange converts a frequency range into [lo, hi) lag bins, where
// the highest frequency sets the lowest bin. Bin 0 maps to infinity and is
// never included.
func reciprocalRange(r FreqRange, sampleRate float64, limit int) (int, int) {
	var m ReciprocalMapper
	lo := max(common.RoundToIndex(m.FreqToBin(r.Max, sampleRate), limit), 1)
	hi := common.RoundToIndex(m.FreqToBin(r.Min, sampleRate), limit)
	return lo, hi
}
