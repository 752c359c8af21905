package common

import (
	"math"
	"math/bits"

	"gonum.org/v1/gonum/stat"
)

// Basic numeric helpers shared across algorithms, using gonum where it has them

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// StandardDeviation calculates the sample standard deviation
func StandardDeviation(data []float64) float64 {
	if len(data) < 2 {
		return 0.0
	}
	return stat.StdDev(data, nil)
}

// IsPowerOfTwo checks if n is a power of 2
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// NextPowerOfTwo finds the next power of 2 >= n
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	if IsPowerOfTwo(n) {
		return n
	}
	return 1 << bits.Len(uint(n))
}

// RoundToIndex rounds x half away from zero and clamps it into [0, limit]
func RoundToIndex(x float64, limit int) int {
	if math.IsNaN(x) || x <= 0 {
		return 0
	}
	if x >= float64(limit) {
		return limit
	}
	return int(math.Round(x))
}

// Signum returns +1 for values >= +0 and -1 for negative values
func Signum(x float64) float64 {
	return math.Copysign(1, x)
}
