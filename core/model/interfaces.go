// Package model provides the shared interfaces and base types for spcgo
// estimators and transformers.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Transformer is the interface for data transformations such as scaling.
type Transformer interface {
	// Fit learns the transformation parameters from X.
	Fit(X mat.Matrix) error

	// Transform applies the learned transformation to X.
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform fits on X and returns the transformed X.
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// InvertibleTransformer is a Transformer whose effect can be undone
// exactly, up to floating-point precision.
type InvertibleTransformer interface {
	Transformer

	// InverseTransform maps transformed data back to the original units.
	InverseTransform(X mat.Matrix) (mat.Matrix, error)
}

// OutlierDiagnoser is the interface for latent-variable models that score
// observations against a fitted reference region.
type OutlierDiagnoser interface {
	// T2Limit returns the Hotelling's T2 control limit at the given
	// confidence level in (0, 1).
	T2Limit(confLevel float64) (float64, error)

	// SPELimit returns the squared-prediction-error control limit at the
	// given confidence level in (0, 1).
	SPELimit(confLevel float64) (float64, error)
}

// Sparse is the marker interface of sparse matrix implementations, e.g.
// the CSR/CSC types of github.com/james-bowman/sparse. Latent-variable
// models reject inputs that implement it: NIPALS deflation densifies the
// residual, so a sparse representation offers nothing but surprise.
type Sparse interface {
	mat.Matrix

	// NNZ returns the number of structurally non-zero entries.
	NNZ() int
}
