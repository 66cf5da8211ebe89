package multivariate

import (
	"math"
)

// component is one extracted latent dimension. For PCA only scores and
// loadings are populated; PLS additionally carries the predictor weights
// and the response loadings.
type component struct {
	scores     []float64 // length N
	loadings   []float64 // length K; unit length for PCA
	weights    []float64 // length K, unit length; PLS only
	yScores    []float64 // length N; PLS only
	yLoadings  []float64 // length M; PLS only
	iterations int
	converged  bool
	degenerate bool // no extractable variance; scores and loadings are zero
	delta      float64
	residualSS float64 // predictor residual sum of squares after deflation
}

// nipals is the iterative component extractor shared by PCA and PLS.
// The two model kinds reuse the same convergence/deflation loop and
// differ only in which regression steps feed it, so the extractor holds
// nothing but the loop configuration.
type nipals struct {
	tolerance float64
	maxIter   int
}

func newNIPALS(cfg config) nipals {
	return nipals{tolerance: cfg.tolerance, maxIter: cfg.maxIter}
}

// seedColumn returns the values of the column with the largest observed
// sum of squares, the conventional NIPALS starting score. Ties break to
// the lowest index, keeping extraction deterministic.
func seedColumn(m *MaskedMatrix) []float64 {
	r, _ := m.Dims()
	ssqs := ColSSQ(m)
	best := 0
	for j, s := range ssqs {
		if s > ssqs[best] {
			best = j
		}
	}
	col := make([]float64, r)
	for i := 0; i < r; i++ {
		if m.Observed(i, best) {
			col[i] = m.At(i, best)
		}
	}
	return col
}

func deltaNorm(a, b []float64) float64 {
	var total float64
	for i := range a {
		d := a[i] - b[i]
		total += d * d
	}
	return math.Sqrt(total)
}

// deflate subtracts the rank-one reconstruction t*v' from the observed
// cells of m. Unobserved cells stay at zero.
func deflate(m *MaskedMatrix, t, v []float64) {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if !m.Observed(i, j) {
				continue
			}
			m.data.Set(i, j, m.At(i, j)-t[i]*v[j])
		}
	}
}

// zeroComponent is returned once the residual carries no extractable
// variance: all-zero scores and loadings, never fabricated directions.
func zeroComponent(n, k, m int) component {
	c := component{
		scores:     make([]float64, n),
		loadings:   make([]float64, k),
		converged:  true,
		degenerate: true,
	}
	if m > 0 {
		c.weights = make([]float64, k)
		c.yScores = make([]float64, n)
		c.yLoadings = make([]float64, m)
	}
	return c
}

// extractPCA runs one NIPALS pass on the residual E and deflates it.
//
// Each iteration regresses the columns of E on the trial score to get a
// loading, normalizes it, and regresses the rows of E on the loading to
// update the score, until the score change drops below the tolerance or
// the iteration cap is hit. The per-column regressions consume the
// observed mask, which is the only missing-data handling the loop needs.
func (nl nipals) extractPCA(E *MaskedMatrix) component {
	n, k := E.Dims()

	t := seedColumn(E)
	p := make([]float64, k)

	var comp component
	for iter := 1; iter <= nl.maxIter; iter++ {
		b, _ := QuickRegress(E, t)
		copy(p, b)
		if normalize(p) == 0 {
			return zeroComponent(n, k, 0)
		}

		tNew := rowRegress(E, p)
		comp.delta = deltaNorm(tNew, t)
		copy(t, tNew)
		comp.iterations = iter
		if comp.delta < nl.tolerance {
			comp.converged = true
			break
		}
	}

	deflate(E, t, p)
	comp.scores = t
	comp.loadings = p
	return comp
}

// extractPLS runs one NIPALS pass over the predictor residual E and the
// response residual F, deflating both.
//
// The predictor weight vector (normalized) replaces the plain loading as
// the direction that generates the score; the response loading is fitted
// against the evolving score each iteration, and after convergence the
// unnormalized predictor loading is regressed out of E while the response
// loading is regressed out of F.
func (nl nipals) extractPLS(E, F *MaskedMatrix) component {
	n, k := E.Dims()
	_, m := F.Dims()

	u := seedColumn(F)
	t := make([]float64, n)
	w := make([]float64, k)

	var comp component
	var c []float64
	for iter := 1; iter <= nl.maxIter; iter++ {
		b, _ := QuickRegress(E, u)
		copy(w, b)
		if normalize(w) == 0 {
			return zeroComponent(n, k, m)
		}

		tNew := rowRegress(E, w)
		c, _ = QuickRegress(F, tNew)
		u = rowRegress(F, c)

		comp.delta = deltaNorm(tNew, t)
		copy(t, tNew)
		comp.iterations = iter
		if comp.delta < nl.tolerance {
			comp.converged = true
			break
		}
	}

	p, _ := QuickRegress(E, t)
	deflate(E, t, p)
	deflate(F, t, c)

	comp.scores = t
	comp.loadings = p
	comp.weights = w
	comp.yScores = u
	comp.yLoadings = c
	return comp
}
