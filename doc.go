// Package spcgo provides multivariate statistical process monitoring for
// Go: PCA and PLS latent-variable models fitted with NIPALS, Hotelling's
// T2 and SPE control limits, and confidence-region geometry for score
// plots.
//
// The library targets the data sets typical of process engineering and
// chemometrics: small, in-memory float64 matrices that are often highly
// collinear and sometimes incomplete. Missing values are handled with an
// explicit observed mask rather than NaN sentinels.
//
// # Packages
//
//   - multivariate: PCA/PLS models, NIPALS extractor, control limits
//   - preprocessing: mean-centering and unit-variance scaling (MCUV)
//   - plots: score plots with confidence ellipses, control charts
//   - core/model: shared estimator interfaces and base types
//   - pkg/errors: error types and the warning system
//   - pkg/log: structured logging facade
//
// # Quick start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/spcgo/multivariate"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(3, 4, []float64{
//	        3, 4, 2, 2,
//	        4, 3, 4, 3,
//	        5, 5, 6, 4,
//	    })
//
//	    pca, err := multivariate.NewPCA(2)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := pca.Fit(X); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    fmt.Println("cumulative R2:", pca.R2Cum)
//	}
//
// Warnings (clamped component counts, NIPALS non-convergence, rank
// exhaustion) are reported through the handler in pkg/errors; install a
// zerolog logger with pkg/log to receive them as structured events.
package spcgo
