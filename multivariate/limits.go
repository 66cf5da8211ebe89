package multivariate

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/spcgo/pkg/errors"
)

// TSquaredLimit returns the Hotelling's T2 control limit for a model with
// a components fitted on n observations, at the given confidence level:
//
//	a(n-1)(n+1) / (n(n-a)) * F^-1(confLevel; a, n-a)
//
// where F^-1 is the quantile of the F distribution with (a, n-a) degrees
// of freedom. Defined only for n > a.
func TSquaredLimit(a, n int, confLevel float64) (float64, error) {
	const op = "TSquaredLimit"
	if confLevel <= 0 || confLevel >= 1 {
		return 0, errors.NewValueError(op, "confidence level must be strictly between 0 and 1")
	}
	if a < 1 {
		return 0, errors.NewValueError(op, "the number of components must be at least 1")
	}
	if n <= a {
		return 0, errors.NewValueError(op, "the number of observations must exceed the number of components")
	}

	f := distuv.F{D1: float64(a), D2: float64(n - a)}
	multiplier := float64(a) * float64(n-1) * float64(n+1) / (float64(n) * float64(n-a))
	return multiplier * f.Quantile(confLevel), nil
}

// SPELimit returns the squared-prediction-error control limit for the
// given per-observation SPE values using the default center policy.
func SPELimit(spe []float64, confLevel float64) (float64, error) {
	return SPELimitFor(spe, confLevel, DefaultSPEPolicy())
}

// SPELimitFor derives the SPE control limit by moment-matching a scaled
// chi-squared distribution (Jackson-Mudholkar): with center c and
// variance v of the SPE values, g = v/(2c) and h = 2c²/v, and the limit
// is g * chi2^-1(confLevel; h).
//
// The center is the median when len(spe) exceeds the policy threshold
// (robust against outlying observations) and the mean otherwise.
func SPELimitFor(spe []float64, confLevel float64, policy SPEPolicy) (float64, error) {
	const op = "SPELimit"
	if confLevel <= 0 || confLevel >= 1 {
		return 0, errors.NewValueError(op, "confidence level must be strictly between 0 and 1")
	}
	if len(spe) < 2 {
		return 0, errors.NewValueError(op, "at least 2 SPE values are required")
	}

	var center float64
	if len(spe) > policy.CenterThreshold {
		center = median(spe)
	} else {
		center = stat.Mean(spe, nil)
	}
	variance := stat.Variance(spe, nil)

	if center <= 0 || variance <= 0 {
		return 0, errors.NewValueError(op, "SPE values have no spread; a chi-squared limit is undefined")
	}

	g := variance / (2 * center)
	h := 2 * center * center / variance
	chi2 := distuv.ChiSquared{K: h}
	return g * chi2.Quantile(confLevel), nil
}

// median returns the interpolated median, averaging the two central
// order statistics for even-length input.
func median(v []float64) float64 {
	sorted := append([]float64(nil), v...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return 0.5 * (sorted[n/2-1] + sorted[n/2])
}

// EllipseCoordinates returns nPoints evenly spaced coordinate pairs on
// the T2 confidence ellipse for two score dimensions with sample
// standard deviations sH and sV:
//
//	x(theta) = sqrt(t2Limit) * sH * cos(theta)
//	y(theta) = sqrt(t2Limit) * sV * sin(theta)
//
// with theta spanning [0, 2*pi] inclusive of both endpoints.
// DefaultEllipsePoints is the conventional nPoints for plotting.
func EllipseCoordinates(sH, sV, t2Limit float64, nPoints int) (x, y []float64, err error) {
	const op = "EllipseCoordinates"
	if nPoints < 2 {
		return nil, nil, errors.NewValueError(op, "at least 2 points are required")
	}
	if t2Limit < 0 {
		return nil, nil, errors.NewValueError(op, "the T2 limit must be non-negative")
	}
	if sH <= 0 || sV <= 0 {
		return nil, nil, errors.NewValueError(op, "score standard deviations must be positive")
	}

	hConst := math.Sqrt(t2Limit) * sH
	vConst := math.Sqrt(t2Limit) * sV
	dt := 2 * math.Pi / float64(nPoints-1)

	x = make([]float64, nPoints)
	y = make([]float64, nPoints)
	for i := 0; i < nPoints; i++ {
		theta := float64(i) * dt
		x[i] = hConst * math.Cos(theta)
		y[i] = vConst * math.Sin(theta)
	}
	return x, y, nil
}
