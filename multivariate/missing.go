package multivariate

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/spcgo/pkg/errors"
)

// MaskedMatrix pairs a data matrix with an explicit observed mask.
//
// Missing cells are represented by mask entries, not by sentinel float
// values, so NaN can never leak through an arithmetic path unnoticed.
// The stored value of an unobserved cell is 0 and is never read by the
// fitting code.
type MaskedMatrix struct {
	data *mat.Dense
	obs  []bool // row-major, len rows*cols; nil means fully observed
}

// NewMaskedMatrix wraps data with the given observed mask. The mask is
// row-major with one entry per cell; a nil mask means fully observed.
func NewMaskedMatrix(data *mat.Dense, observed []bool) (*MaskedMatrix, error) {
	r, c := data.Dims()
	if observed != nil && len(observed) != r*c {
		return nil, errors.NewDimensionError("NewMaskedMatrix", r*c, len(observed), 0)
	}
	m := &MaskedMatrix{data: mat.DenseCopyOf(data), obs: nil}
	if observed != nil {
		m.obs = make([]bool, len(observed))
		copy(m.obs, observed)
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				if !m.obs[i*c+j] {
					m.data.Set(i, j, 0)
				}
			}
		}
	}
	return m, nil
}

// MaskedFromMatrix copies X into a fully observed MaskedMatrix.
func MaskedFromMatrix(X mat.Matrix) *MaskedMatrix {
	return &MaskedMatrix{data: mat.DenseCopyOf(X)}
}

// MaskedFromNaN copies X, treating NaN cells as missing.
func MaskedFromNaN(X mat.Matrix) *MaskedMatrix {
	r, c := X.Dims()
	m := &MaskedMatrix{data: mat.NewDense(r, c, nil)}
	var obs []bool
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			if math.IsNaN(v) {
				if obs == nil {
					obs = make([]bool, r*c)
					for k := range obs {
						obs[k] = true
					}
				}
				obs[i*c+j] = false
				continue
			}
			m.data.Set(i, j, v)
		}
	}
	m.obs = obs
	return m
}

// Dims returns the matrix dimensions.
func (m *MaskedMatrix) Dims() (r, c int) {
	return m.data.Dims()
}

// At returns the value at (i, j); 0 for unobserved cells.
func (m *MaskedMatrix) At(i, j int) float64 {
	return m.data.At(i, j)
}

// Observed reports whether cell (i, j) holds an observed value.
func (m *MaskedMatrix) Observed(i, j int) bool {
	if m.obs == nil {
		return true
	}
	_, c := m.data.Dims()
	return m.obs[i*c+j]
}

// HasMissing reports whether any cell is unobserved.
func (m *MaskedMatrix) HasMissing() bool {
	for _, o := range m.obs {
		if !o {
			return true
		}
	}
	return false
}

// clone returns an independent copy used as a deflation workspace.
func (m *MaskedMatrix) clone() *MaskedMatrix {
	out := &MaskedMatrix{data: mat.DenseCopyOf(m.data)}
	if m.obs != nil {
		out.obs = make([]bool, len(m.obs))
		copy(out.obs, m.obs)
	}
	return out
}

// validate checks the fitting invariants: every row and every column must
// carry at least one observed value.
func (m *MaskedMatrix) validate(op string) error {
	if m.obs == nil {
		return nil
	}
	r, c := m.data.Dims()
	for i := 0; i < r; i++ {
		any := false
		for j := 0; j < c; j++ {
			if m.obs[i*c+j] {
				any = true
				break
			}
		}
		if !any {
			return errors.NewModelError(op, "empty row", errors.ErrAllMissing)
		}
	}
	for j := 0; j < c; j++ {
		any := false
		for i := 0; i < r; i++ {
			if m.obs[i*c+j] {
				any = true
				break
			}
		}
		if !any {
			return errors.NewModelError(op, "empty column", errors.ErrAllMissing)
		}
	}
	return nil
}
