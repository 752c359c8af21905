package common

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

// guoIterations bounds the reweighting passes of Guo's algorithm
const guoIterations = 10

// Gaussian holds the parameters of a*exp(-(x-mu)^2/(2*sigma^2))
type Gaussian struct {
	Mu        float64 `json:"mu"`        // Center
	Sigma     float64 `json:"sigma"`     // Spread
	Amplitude float64 `json:"amplitude"` // Height at Mu
}

// At evaluates the curve at x
func (g Gaussian) At(x float64) float64 {
	d := x - g.Mu
	return g.Amplitude * math.Exp(-d*d/(2*g.Sigma*g.Sigma))
}

// FitGaussian fits a Gaussian to the samples (xs[i], ys[i]).
//
// The estimate starts from Guo's iteratively reweighted fit of the log
// parabola ln y = c0 + c1*x + c2*x^2, solved as a weighted linear least
// squares problem, and is then refined by nonlinear least squares on the
// samples themselves. Only strictly positive samples take part.
func FitGaussian(xs, ys []float64) (Gaussian, error) {
	if len(xs) != len(ys) {
		return Gaussian{}, fmt.Errorf("%w: got %d x values and %d y values", ErrIncorrectParameters, len(xs), len(ys))
	}

	px := make([]float64, 0, len(xs))
	py := make([]float64, 0, len(ys))
	for i, y := range ys {
		if y > 0 && !math.IsInf(y, 0) && !math.IsNaN(xs[i]) {
			px = append(px, xs[i])
			py = append(py, y)
		}
	}
	if len(px) < 3 {
		return Gaussian{}, fmt.Errorf("%w: gaussian fit needs at least 3 positive samples, got %d", ErrUnexpected, len(px))
	}

	center := stat.Mean(px, nil)
	g, err := guoFit(px, py, center)
	if err != nil {
		return Gaussian{}, err
	}

	return refineGaussian(px, py, center, g), nil
}

func guoFit(xs, ys []float64, center float64) (Gaussian, error) {
	n := len(xs)
	design := mat.NewDense(n, 3, nil)
	target := mat.NewVecDense(n, nil)

	// first pass weights each residual by y^2, rows are scaled by y
	weights := make([]float64, n)
	copy(weights, ys)

	var coef mat.VecDense
	var c0, c1, c2 float64
	fitted := false

	for iter := range guoIterations {
		for i := range n {
			dx := xs[i] - center
			w := weights[i]
			design.Set(i, 0, w)
			design.Set(i, 1, w*dx)
			design.Set(i, 2, w*dx*dx)
			target.SetVec(i, w*math.Log(ys[i]))
		}

		if err := coef.SolveVec(design, target); err != nil {
			if fitted {
				break
			}
			return Gaussian{}, fmt.Errorf("%w: gaussian least squares: %w", ErrUnexpected, err)
		}

		n0, n1, n2 := coef.AtVec(0), coef.AtVec(1), coef.AtVec(2)
		if !(n2 < 0) || math.IsNaN(n0) || math.IsNaN(n1) {
			if fitted {
				break
			}
			return Gaussian{}, fmt.Errorf("%w: samples do not form a concave log peak", ErrUnexpected)
		}

		converged := fitted && math.Abs(n0-c0) <= 1e-12*math.Abs(c0)+1e-15 &&
			math.Abs(n1-c1) <= 1e-12*math.Abs(c1)+1e-15 &&
			math.Abs(n2-c2) <= 1e-12*math.Abs(c2)+1e-15
		c0, c1, c2 = n0, n1, n2
		fitted = true
		if converged || iter == guoIterations-1 {
			break
		}

		for i := range n {
			dx := xs[i] - center
			weights[i] = math.Exp(c0 + c1*dx + c2*dx*dx)
		}
	}

	g := Gaussian{
		Mu:        center - c1/(2*c2),
		Sigma:     math.Sqrt(-1 / (2 * c2)),
		Amplitude: math.Exp(c0 - c1*c1/(4*c2)),
	}
	if !g.finite() {
		return Gaussian{}, fmt.Errorf("%w: gaussian fit produced non-finite parameters", ErrUnexpected)
	}
	return g, nil
}

// refineGaussian minimizes the plain squared residuals starting from g. The
// problem is scaled to unit amplitude and unit spread so the default
// convergence thresholds are meaningful. g is returned when no better
// finite optimum is found.
func refineGaussian(xs, ys []float64, center float64, g Gaussian) Gaussian {
	yScale, xScale := g.Amplitude, g.Sigma
	u := make([]float64, len(xs))
	v := make([]float64, len(ys))
	for i := range xs {
		u[i] = (xs[i] - center) / xScale
		v[i] = ys[i] / yScale
	}

	residual := func(p []float64) float64 {
		a, m, s := p[0], p[1], p[2]
		var sum float64
		for i := range u {
			d := u[i] - m
			r := a*math.Exp(-d*d/(2*s*s)) - v[i]
			sum += r * r
		}
		return sum
	}

	problem := optimize.Problem{
		Func: residual,
		Grad: func(grad, p []float64) {
			a, m, s := p[0], p[1], p[2]
			grad[0], grad[1], grad[2] = 0, 0, 0
			for i := range u {
				d := u[i] - m
				e := math.Exp(-d * d / (2 * s * s))
				r := a*e - v[i]
				grad[0] += 2 * r * e
				grad[1] += 2 * r * a * e * d / (s * s)
				grad[2] += 2 * r * a * e * d * d / (s * s * s)
			}
		},
	}

	p0 := []float64{1, (g.Mu - center) / xScale, 1}
	f0 := residual(p0)
	settings := &optimize.Settings{
		GradientThreshold: 1e-10,
		MajorIterations:   200,
	}

	result, _ := optimize.Minimize(problem, p0, settings, &optimize.LBFGS{})
	if result == nil || !(result.F < f0) {
		return g
	}

	refined := Gaussian{
		Mu:        center + result.X[1]*xScale,
		Sigma:     math.Abs(result.X[2]) * xScale,
		Amplitude: result.X[0] * yScale,
	}
	if !refined.finite() || refined.Amplitude <= 0 || refined.Sigma == 0 {
		return g
	}
	return refined
}

func (g Gaussian) finite() bool {
	for _, v := range []float64{g.Mu, g.Sigma, g.Amplitude} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
