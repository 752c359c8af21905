package common

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		n        int
		expected int
	}{
		{-10, 1},
		{0, 1},
		{1, 1},
		{3, 4},
		{8, 8},
		{1000, 1024},
		{16384, 16384},
		{44100, 65536},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d→%d", tt.n, tt.expected), func(t *testing.T) {
			if got := NextPowerOfTwo(tt.n); got != tt.expected {
				t.Errorf("NextPowerOfTwo(%d) = %d, expected %d", tt.n, got, tt.expected)
			}
		})
	}
}

func TestRoundToIndex(t *testing.T) {
	t.Parallel()
	tests := []struct {
		x     float64
		limit int
		want  int
	}{
		{12.15, 100, 12},
		{12.5, 100, 13},
		{-3, 100, 0},
		{math.NaN(), 100, 0},
		{250, 100, 100},
	}
	for _, tt := range tests {
		if got := RoundToIndex(tt.x, tt.limit); got != tt.want {
			t.Errorf("RoundToIndex(%v, %d) = %d, want %d", tt.x, tt.limit, got, tt.want)
		}
	}
}

func TestSignum(t *testing.T) {
	t.Parallel()
	if Signum(0) != 1 || Signum(2.5) != 1 || Signum(-0.1) != -1 {
		t.Errorf("unexpected signum values")
	}
}

func TestMeanAndStandardDeviation(t *testing.T) {
	t.Parallel()
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := Mean(data); got != 5 {
		t.Errorf("Mean = %v, want 5", got)
	}
	// sample standard deviation of the classic population-2 example
	if got, want := StandardDeviation(data), math.Sqrt(32.0/7.0); math.Abs(got-want) > 1e-12 {
		t.Errorf("StandardDeviation = %v, want %v", got, want)
	}
	if StandardDeviation([]float64{1}) != 0 {
		t.Error("expected zero deviation for a single sample")
	}
}

func sampleGaussian(g Gaussian, from, to int) ([]float64, []float64) {
	var xs, ys []float64
	for i := from; i <= to; i++ {
		xs = append(xs, float64(i))
		ys = append(ys, g.At(float64(i)))
	}
	return xs, ys
}

func TestFitGaussianRecoversParameters(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		g        Gaussian
		from, to int
	}{
		{"five points", Gaussian{Mu: 10.3, Sigma: 1.7, Amplitude: 5}, 8, 12},
		{"wide", Gaussian{Mu: 163.47, Sigma: 2.5, Amplitude: 0.25}, 158, 169},
		{"large amplitude", Gaussian{Mu: 200.2, Sigma: 4, Amplitude: 3e6}, 193, 207},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xs, ys := sampleGaussian(tt.g, tt.from, tt.to)
			got, err := FitGaussian(xs, ys)
			if err != nil {
				t.Fatalf("FitGaussian returned error: %v", err)
			}
			if math.Abs(got.Mu-tt.g.Mu) > 1e-6 {
				t.Errorf("mu = %v, want %v", got.Mu, tt.g.Mu)
			}
			if math.Abs(got.Amplitude-tt.g.Amplitude) > 1e-6*math.Max(1, tt.g.Amplitude) {
				t.Errorf("amplitude = %v, want %v", got.Amplitude, tt.g.Amplitude)
			}
			if math.Abs(got.Sigma-tt.g.Sigma) > 1e-6 {
				t.Errorf("sigma = %v, want %v", got.Sigma, tt.g.Sigma)
			}
		})
	}
}

func TestFitGaussianFailures(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		xs, ys []float64
		want   error
	}{
		{"mismatched", []float64{1, 2}, []float64{1}, ErrIncorrectParameters},
		{"convex", []float64{0, 1, 2}, []float64{1, 0.5, 1}, ErrUnexpected},
		{"too few positive", []float64{0, 1, 2}, []float64{1, 0, 2}, ErrUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FitGaussian(tt.xs, tt.ys); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestInterpolatedPeakAt(t *testing.T) {
	t.Parallel()

	t.Run("empty neighborhood", func(t *testing.T) {
		if _, err := InterpolatedPeakAt(nil, 0); !errors.Is(err, ErrIncorrectParameters) {
			t.Errorf("error = %v, want ErrIncorrectParameters", err)
		}
		if _, err := InterpolatedPeakAt([]float64{1, 2}, 5); !errors.Is(err, ErrIncorrectParameters) {
			t.Errorf("error = %v, want ErrIncorrectParameters", err)
		}
	})

	t.Run("single point", func(t *testing.T) {
		got, err := InterpolatedPeakAt([]float64{0, 5, 0}, 1)
		if err != nil {
			t.Fatal(err)
		}
		if got != (FFTPoint{X: 1, Y: 5}) {
			t.Errorf("got %+v, want {1 5}", got)
		}
	})

	t.Run("two points", func(t *testing.T) {
		got, err := InterpolatedPeakAt([]float64{0, 3, 5, -1}, 2)
		if err != nil {
			t.Fatal(err)
		}
		if got != (FFTPoint{X: 2, Y: 5}) {
			t.Errorf("got %+v, want {2 5}", got)
		}
	})

	t.Run("gaussian neighborhood", func(t *testing.T) {
		g := Gaussian{Mu: 10.3, Sigma: 1.5, Amplitude: 2}
		_, spectrum := sampleGaussian(g, 0, 20)
		// a rising value past the valley must stop the walk
		spectrum = append([]float64{1}, spectrum...)
		got, err := InterpolatedPeakAt(spectrum, 11)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got.X-(g.Mu+1)) > 1e-6 || math.Abs(got.Y-g.Amplitude) > 1e-6 {
			t.Errorf("got %+v, want x=%v y=%v", got, g.Mu+1, g.Amplitude)
		}
	})
}

func TestFitPeakTwoPointsPrefersLarger(t *testing.T) {
	t.Parallel()
	got, err := FitPeak([]float64{4, 5}, []float64{7, 3})
	if err != nil {
		t.Fatal(err)
	}
	if got != (FFTPoint{X: 4, Y: 7}) {
		t.Errorf("got %+v, want {4 7}", got)
	}

	got, err = FitPeak([]float64{4, 5}, []float64{7, 7})
	if err != nil {
		t.Fatal(err)
	}
	if got != (FFTPoint{X: 5, Y: 7}) {
		t.Errorf("tie: got %+v, want {5 7}", got)
	}
}

func TestMixedWave(t *testing.T) {
	t.Parallel()
	a := SineWave(64, 440, 44100)
	b := SineWave(64, 523.25, 44100)
	mixed := MixedWave(64, []float64{440, 523.25}, 44100)
	for i := range mixed {
		if math.Abs(mixed[i]-(a[i]+b[i])) > 1e-12 {
			t.Fatalf("sample %d = %v, want %v", i, mixed[i], a[i]+b[i])
		}
	}
}
