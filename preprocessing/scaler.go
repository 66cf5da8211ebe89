// Package preprocessing provides the data conditioning transformers
// consumed by the latent-variable models.
package preprocessing

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/spcgo/core/model"
	"github.com/YuminosukeSato/spcgo/core/parallel"
	"github.com/YuminosukeSato/spcgo/pkg/errors"
)

// Rows below this count are transformed sequentially.
const parallelThreshold = 1000

// MCUVScaler mean-centers each column and scales it to unit variance
// (MCUV: mean centering, unit variance).
//
// The standard deviation uses the sample estimator (delta degrees of
// freedom = 1), which matters on the small data sets typical of process
// monitoring. Columns with zero variance keep a scale of 1 so they pass
// through unchanged instead of dividing by zero.
type MCUVScaler struct {
	model.BaseEstimator

	// Center is the per-column mean.
	Center []float64

	// Scale is the per-column sample standard deviation (ddof=1);
	// zero-variance columns are fixed at 1.
	Scale []float64

	// NVariables is the number of columns seen during Fit.
	NVariables int
}

// NewMCUVScaler creates a new MCUVScaler.
//
// Example:
//
//	scaler := preprocessing.NewMCUVScaler()
//	Xmcuv, err := scaler.FitTransform(X)
func NewMCUVScaler() *MCUVScaler {
	return &MCUVScaler{}
}

// Fit computes the per-column center and scale from X.
func (s *MCUVScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("MCUVScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	if r < 2 {
		return errors.NewValueError("MCUVScaler.Fit", "at least 2 rows are required for a sample standard deviation")
	}

	s.NVariables = c
	s.Center = make([]float64, c)
	s.Scale = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		mean, std := stat.MeanStdDev(col, nil)
		s.Center[j] = mean
		if std == 0 {
			// No variance: leave the column as-is after centering.
			std = 1.0
		}
		s.Scale[j] = std
	}

	s.SetFitted()
	return nil
}

// Transform standardizes X with the fitted center and scale:
// X'[i,j] = (X[i,j] - Center[j]) / Scale[j].
func (s *MCUVScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("MCUVScaler", "Transform")
	}

	r, c := X.Dims()
	if c != s.NVariables {
		return nil, errors.NewDimensionError("MCUVScaler.Transform", s.NVariables, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < c; j++ {
				result.Set(i, j, (X.At(i, j)-s.Center[j])/s.Scale[j])
			}
		}
	})

	return result, nil
}

// FitTransform fits the scaler on X and returns the transformed X.
func (s *MCUVScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform maps standardized data back to the original units.
// The round trip Transform then InverseTransform reproduces the input to
// floating-point precision.
func (s *MCUVScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("MCUVScaler", "InverseTransform")
	}

	r, c := X.Dims()
	if c != s.NVariables {
		return nil, errors.NewDimensionError("MCUVScaler.InverseTransform", s.NVariables, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < c; j++ {
				result.Set(i, j, X.At(i, j)*s.Scale[j]+s.Center[j])
			}
		}
	})

	return result, nil
}

// ScalingFactors returns the multiplicative factors applied by Transform,
// i.e. the reciprocal of the stored standard deviations.
func (s *MCUVScaler) ScalingFactors() []float64 {
	if s.Scale == nil {
		return nil
	}
	factors := make([]float64, len(s.Scale))
	for i, sd := range s.Scale {
		factors[i] = 1 / sd
	}
	return factors
}

// String returns a printable description of the scaler.
func (s *MCUVScaler) String() string {
	if !s.IsFitted() {
		return "MCUVScaler()"
	}
	return fmt.Sprintf("MCUVScaler(n_variables=%d)", s.NVariables)
}
