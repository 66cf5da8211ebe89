package multivariate

import (
	"math"

	"github.com/YuminosukeSato/spcgo/pkg/errors"
)

// SSQ returns the total sum of squares of the observed entries of m.
// Unobserved cells contribute zero rather than propagating as missing,
// so on fully observed data it equals the plain sum of squares.
func SSQ(m *MaskedMatrix) float64 {
	r, c := m.Dims()
	var total float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if !m.Observed(i, j) {
				continue
			}
			v := m.At(i, j)
			total += v * v
		}
	}
	return total
}

// ColSSQ returns the per-column sums of squares of the observed entries.
func ColSSQ(m *MaskedMatrix) []float64 {
	r, c := m.Dims()
	out := make([]float64, c)
	for j := 0; j < c; j++ {
		var total float64
		for i := 0; i < r; i++ {
			if !m.Observed(i, j) {
				continue
			}
			v := m.At(i, j)
			total += v * v
		}
		out[j] = total
	}
	return out
}

func ssqVec(v []float64) float64 {
	var total float64
	for _, x := range v {
		total += x * x
	}
	return total
}

// QuickRegress computes, for every column m of Y, the least-squares slope
// b_m of the no-intercept model y_m ~ b_m * x, using only the rows where
// y_m is observed. The predictor x must be fully observed.
//
// Different columns may use different effective row subsets (pairwise
// missing handling), which is what lets NIPALS iterate unchanged over
// incomplete data. The second return value is the predictor sum of
// squares restricted to each column's observed rows: it is proportional
// to the variance the slope can explain and supports weighted deflation
// schemes as well as degeneracy checks.
//
// Degenerate columns (entirely missing, or a restricted predictor with
// zero sum of squares) yield a signed zero slope instead of an error.
func QuickRegress(Y *MaskedMatrix, x []float64) (b, xss []float64) {
	r, c := Y.Dims()
	b = make([]float64, c)
	xss = make([]float64, c)
	for j := 0; j < c; j++ {
		var num, den float64
		for i := 0; i < r; i++ {
			if !Y.Observed(i, j) {
				continue
			}
			num += x[i] * Y.At(i, j)
			den += x[i] * x[i]
		}
		xss[j] = den
		b[j] = errors.SafeDivide(num, den)
	}
	return b, xss
}

// rowRegress is the transposed counterpart of QuickRegress: for every row
// i of Y it computes the slope of the model Y[i,:] ~ t_i * v over the
// observed cells of that row. It produces the score update of a NIPALS
// pass without materializing the transpose.
func rowRegress(Y *MaskedMatrix, v []float64) []float64 {
	r, c := Y.Dims()
	out := make([]float64, r)
	for i := 0; i < r; i++ {
		var num, den float64
		for j := 0; j < c; j++ {
			if !Y.Observed(i, j) {
				continue
			}
			num += Y.At(i, j) * v[j]
			den += v[j] * v[j]
		}
		out[i] = errors.SafeDivide(num, den)
	}
	return out
}

// normalize scales v to unit Euclidean length in place and returns its
// original norm. A zero vector is left untouched.
func normalize(v []float64) float64 {
	norm := math.Sqrt(ssqVec(v))
	if norm == 0 {
		return 0
	}
	for i := range v {
		v[i] /= norm
	}
	return norm
}
