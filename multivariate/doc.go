// Package multivariate implements latent-variable models for
// multivariate statistical process monitoring: principal component
// analysis (PCA) and projection to latent structures (PLS), both fitted
// with the NIPALS algorithm, together with the diagnostics used to judge
// whether new observations are in control.
//
// NIPALS extracts components one at a time by iterative regression and
// deflation, which makes it tolerant of missing data: the regression
// kernel simply restricts each column's regression to its observed rows.
// Missing values are carried as an explicit observed mask (MaskedMatrix),
// never as NaN sentinels.
//
// A fitted model exposes scores, loadings (and weights for PLS),
// per-component and cumulative R2, per-observation Hotelling's T2 and
// squared prediction error (SPE), and the control limits derived from
// them: the F-distribution T2 limit, the Jackson-Mudholkar chi-squared
// SPE limit, and parametric confidence-ellipse coordinates for score
// plots.
//
// Typical monitoring flow:
//
//	pca, _ := multivariate.NewPCA(2)
//	if err := pca.Fit(X); err != nil {
//	    log.Fatal(err)
//	}
//	t2lim, _ := pca.T2Limit(0.95)
//	spelim, _ := pca.SPELimit(0.95)
//
//	proj, _ := pca.Transform(Xnew)
//	for i, t2 := range proj.HotellingT2 {
//	    if t2 > t2lim || proj.SPE[i] > spelim {
//	        // observation i is out of control
//	    }
//	}
package multivariate
