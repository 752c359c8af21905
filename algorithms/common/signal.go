package common

import "math"

// SineWave returns numSamples of a unit sine at freq Hz
func SineWave(numSamples int, freq, sampleRate float64) []float64 {
	signal := make([]float64, numSamples)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}
	return signal
}

// MixedWave returns the sum of unit sines, one per frequency
func MixedWave(numSamples int, freqs []float64, sampleRate float64) []float64 {
	signal := make([]float64, numSamples)
	for _, freq := range freqs {
		for i := range signal {
			signal[i] += math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
		}
	}
	return signal
}
