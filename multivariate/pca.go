package multivariate

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/spcgo/core/model"
	"github.com/YuminosukeSato/spcgo/pkg/errors"
	"github.com/YuminosukeSato/spcgo/pkg/log"
	"github.com/YuminosukeSato/spcgo/preprocessing"
)

// Projection is the self-contained result of projecting observations onto
// a fitted model. It shares no storage with the model: callers own it.
type Projection struct {
	// Scores holds the latent-variable scores, one row per observation.
	Scores *mat.Dense

	// HotellingT2 is the T2 statistic per observation.
	HotellingT2 []float64

	// SPE is the squared prediction error per observation.
	SPE []float64

	// YHat is the predicted response in original units. PLS only; nil
	// for PCA projections.
	YHat *mat.Dense
}

// PCA is a principal component analysis model fitted with NIPALS,
// extended with the process-monitoring diagnostics (Hotelling's T2,
// squared prediction error and their control limits).
//
// Fit preprocesses the data internally (mean centering, unit variance
// with ddof=1) and stores the preprocessing state, so Transform applies
// the same centering and scaling to new observations.
type PCA struct {
	model.BaseEstimator

	cfg config

	// Requested is the component count asked for at construction.
	Requested int

	// A is the component count actually used after any clamping.
	A int

	// N and K are the fitted data dimensions.
	N, K int

	// Loadings is the K x A loadings matrix with orthonormal columns.
	Loadings *mat.Dense

	// Scores is the N x A training score matrix with orthogonal columns.
	Scores *mat.Dense

	// R2 is the fraction of the preprocessed X sum of squares explained
	// per component; R2Cum is its running total.
	R2    []float64
	R2Cum []float64

	// ScoreSD is the sample standard deviation (ddof=1) of each score
	// column, the scaling used by the T2 statistic.
	ScoreSD []float64

	// HotellingT2 and SPE are the per-observation training diagnostics.
	HotellingT2 []float64
	SPE         []float64

	// Residual is the N x K residual of the preprocessed training data
	// after A components, the basis for SPE.
	Residual *mat.Dense

	scaler *preprocessing.MCUVScaler
}

// NewPCA creates a PCA model extracting nComponents latent components.
func NewPCA(nComponents int, opts ...Option) (*PCA, error) {
	if nComponents < 1 {
		return nil, errors.NewValueError("NewPCA", "the number of components must be at least 1")
	}
	cfg, err := newConfig("NewPCA", opts...)
	if err != nil {
		return nil, err
	}
	return &PCA{cfg: cfg, Requested: nComponents}, nil
}

// Fit fits the model on fully observed data.
func (m *PCA) Fit(X mat.Matrix) error {
	if _, ok := X.(model.Sparse); ok {
		return errors.NewUnsupportedDataError("PCA.Fit", "sparse")
	}
	return m.FitMasked(MaskedFromMatrix(X))
}

// FitMasked fits the model on data with an explicit observed mask.
//
// A repeated call re-runs the fit from scratch: every piece of model
// state is reallocated before extraction starts, so components from an
// earlier fit can never survive into a new one.
func (m *PCA) FitMasked(X *MaskedMatrix) error {
	const op = "PCA.Fit"
	n, k := X.Dims()
	if n == 0 || k == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if n < 2 {
		return errors.NewValueError(op, "at least 2 observations are required")
	}
	if err := X.validate(op); err != nil {
		return err
	}

	m.Reset()
	m.N, m.K = n, k
	m.A = clampComponents("PCA", m.Requested, n, k)

	scaler, err := maskedScaler(X)
	if err != nil {
		return err
	}
	m.scaler = scaler
	E := applyScaler(X, scaler)

	nl := newNIPALS(m.cfg)
	baseSS := SSQ(E)
	ex := extraction{model: "PCA", nl: nl, a: m.A, n: n, k: k, baseSS: baseSS}
	ex.residualSS = func() float64 { return SSQ(E) }
	ex.extract = func() component { return nl.extractPCA(E) }
	comps, err := extractComponents(ex)
	if err != nil {
		return err
	}

	m.Scores = mat.NewDense(n, m.A, nil)
	m.Loadings = mat.NewDense(k, m.A, nil)
	for a, comp := range comps {
		m.Scores.SetCol(a, comp.scores)
		m.Loadings.SetCol(a, comp.loadings)
	}
	m.R2, m.R2Cum = explainedVariance(baseSS, comps)

	m.Residual = mat.DenseCopyOf(E.data)
	m.ScoreSD = scoreStdDevs(m.Scores)
	m.HotellingT2 = hotellingT2(m.Scores, m.ScoreSD)
	m.SPE = rowSSQ(E)

	m.SetFitted()

	lg := log.With("PCA")
	lg.Debug().
		Str(log.OperationKey, "fit").
		Int(log.ObservationsKey, n).
		Int(log.VariablesKey, k).
		Int(log.ComponentsKey, m.A).
		Float64(log.R2Key, lastOrZero(m.R2Cum)).
		Msg("model fitted")

	return nil
}

// Transform projects new observations onto the fitted loadings. It
// applies the stored preprocessing, computes scores by sequential
// projection and deflation, and derives T2 and SPE for each observation.
// The model itself is not mutated.
func (m *PCA) Transform(X mat.Matrix) (*Projection, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("PCA", "Transform")
	}
	r, c := X.Dims()
	if c != m.K {
		return nil, errors.NewDimensionError("PCA.Transform", m.K, c, 1)
	}

	scaled, err := m.scaler.Transform(X)
	if err != nil {
		return nil, err
	}
	E := mat.DenseCopyOf(scaled)

	scores := mat.NewDense(r, m.A, nil)
	p := make([]float64, m.K)
	for a := 0; a < m.A; a++ {
		mat.Col(p, a, m.Loadings)
		for i := 0; i < r; i++ {
			var t float64
			for j := 0; j < m.K; j++ {
				t += E.At(i, j) * p[j]
			}
			scores.Set(i, a, t)
			for j := 0; j < m.K; j++ {
				E.Set(i, j, E.At(i, j)-t*p[j])
			}
		}
	}

	proj := &Projection{
		Scores:      scores,
		HotellingT2: hotellingT2(scores, m.ScoreSD),
		SPE:         rowSSQ(MaskedFromMatrix(E)),
	}
	return proj, nil
}

// T2Limit returns the Hotelling's T2 control limit for this model at the
// given confidence level.
func (m *PCA) T2Limit(confLevel float64) (float64, error) {
	if !m.IsFitted() {
		return 0, errors.NewNotFittedError("PCA", "T2Limit")
	}
	return TSquaredLimit(m.A, m.N, confLevel)
}

// SPELimit returns the SPE control limit for this model at the given
// confidence level, using the model's SPE policy.
func (m *PCA) SPELimit(confLevel float64) (float64, error) {
	if !m.IsFitted() {
		return 0, errors.NewNotFittedError("PCA", "SPELimit")
	}
	return SPELimitFor(m.SPE, confLevel, m.cfg.spePolicy)
}

// EllipseCoordinates returns nPoints coordinates of the confidence
// ellipse for the score pair (scoreH, scoreV) at the given confidence
// level. Score dimensions are zero-indexed.
func (m *PCA) EllipseCoordinates(scoreH, scoreV int, confLevel float64, nPoints int) (x, y []float64, err error) {
	if !m.IsFitted() {
		return nil, nil, errors.NewNotFittedError("PCA", "EllipseCoordinates")
	}
	if scoreH < 0 || scoreH >= m.A || scoreV < 0 || scoreV >= m.A {
		return nil, nil, errors.NewValueError("PCA.EllipseCoordinates", "score dimension out of range")
	}
	t2, err := m.T2Limit(confLevel)
	if err != nil {
		return nil, nil, err
	}
	return EllipseCoordinates(m.ScoreSD[scoreH], m.ScoreSD[scoreV], t2, nPoints)
}

// ===========================================================================
//
//	Shared fitting helpers
//
// ===========================================================================

// clampComponents enforces A <= min(N-1, K) and raises a
// SpecificationWarning when the request had to be lowered.
func clampComponents(modelName string, requested, n, k int) int {
	maxA := n - 1
	if k < maxA {
		maxA = k
	}
	if requested <= maxA {
		return requested
	}
	errors.Warn(errors.NewSpecificationWarning(
		modelName, "number of components", requested, maxA,
		"the data support at most min(N-1, K) components"))
	return maxA
}

// extraction bundles the inputs of the shared component-extraction loop.
type extraction struct {
	model      string
	nl         nipals
	a          int // components to extract
	n, k       int // data dimensions, for zero components
	m          int // response columns; 0 for PCA
	baseSS     float64
	residualSS func() float64
	extract    func() component
}

// rankEpsilon is the scale-invariant threshold below which the residual
// sum of squares counts as numerically zero.
const rankEpsilon = 1e-15

// extractComponents drives the extractor A times. Before each pass it
// checks the residual for variance exhaustion: once the residual sum of
// squares falls below rankEpsilon times the starting sum of squares, the
// condition is reported and every remaining component comes back as
// all-zero scores and loadings. A pass that degenerates on its own,
// e.g. when the PLS response block has no variance left, is reported
// the same way. Non-convergence of a pass is reported as a warning and
// the last iterate is kept.
func extractComponents(ex extraction) ([]component, error) {
	comps := make([]component, 0, ex.a)
	exhausted := false
	for i := 0; i < ex.a; i++ {
		if !exhausted {
			residSS := ex.residualSS()
			if ex.baseSS == 0 || residSS < rankEpsilon*ex.baseSS {
				errors.Warn(errors.NewRankExhaustionWarning(ex.model, ex.a, i, residSS))
				exhausted = true
			}
		}
		if exhausted {
			comp := zeroComponent(ex.n, ex.k, ex.m)
			comp.residualSS = ex.residualSS()
			comps = append(comps, comp)
			continue
		}

		comp := ex.extract()
		if comp.degenerate {
			// The pass found no direction to extract even though the
			// residual check passed, e.g. a response block deflated to
			// zero in PLS. Report it and stop extracting.
			errors.Warn(errors.NewRankExhaustionWarning(ex.model, ex.a, i, ex.residualSS()))
			exhausted = true
			comp.residualSS = ex.residualSS()
			comps = append(comps, comp)
			continue
		}
		if !comp.converged {
			errors.Warn(errors.NewConvergenceWarning(
				ex.model+"-NIPALS", i+1, comp.iterations, comp.delta, ex.nl.tolerance))
		}
		if err := errors.CheckNumericalStability(ex.model+".fit scores", comp.scores, comp.iterations); err != nil {
			return nil, err
		}
		comp.residualSS = ex.residualSS()
		comps = append(comps, comp)
	}
	return comps, nil
}

// explainedVariance turns the recorded residual sums of squares into
// per-component and cumulative R2 arrays.
func explainedVariance(baseSS float64, comps []component) (r2, r2cum []float64) {
	r2 = make([]float64, len(comps))
	r2cum = make([]float64, len(comps))
	if baseSS == 0 {
		return r2, r2cum
	}
	prevSS := baseSS
	for a, comp := range comps {
		r2[a] = (prevSS - comp.residualSS) / baseSS
		r2cum[a] = 1 - comp.residualSS/baseSS
		prevSS = comp.residualSS
	}
	return r2, r2cum
}

// maskedScaler computes MCUV preprocessing state over the observed
// entries of X and returns it as a fitted scaler.
func maskedScaler(X *MaskedMatrix) (*preprocessing.MCUVScaler, error) {
	n, k := X.Dims()
	s := preprocessing.NewMCUVScaler()
	if !X.HasMissing() {
		if err := s.Fit(X.data); err != nil {
			return nil, err
		}
		return s, nil
	}

	s.NVariables = k
	s.Center = make([]float64, k)
	s.Scale = make([]float64, k)
	var col []float64
	for j := 0; j < k; j++ {
		col = col[:0]
		for i := 0; i < n; i++ {
			if X.Observed(i, j) {
				col = append(col, X.At(i, j))
			}
		}
		mean, std := stat.MeanStdDev(col, nil)
		s.Center[j] = mean
		if len(col) < 2 || std == 0 || math.IsNaN(std) {
			std = 1.0
		}
		s.Scale[j] = std
	}
	s.SetFitted()
	return s, nil
}

// applyScaler returns the preprocessed working copy of X. Unobserved
// cells stay at zero, which is exactly the centered value the regression
// kernel would ignore anyway.
func applyScaler(X *MaskedMatrix, s *preprocessing.MCUVScaler) *MaskedMatrix {
	E := X.clone()
	n, k := E.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			if !E.Observed(i, j) {
				continue
			}
			E.data.Set(i, j, (E.At(i, j)-s.Center[j])/s.Scale[j])
		}
	}
	return E
}

// scoreStdDevs returns the sample standard deviation of each score
// column. Zero-variance (degenerate) columns report 1 so the T2 ratio
// stays finite with a zero numerator.
func scoreStdDevs(scores *mat.Dense) []float64 {
	n, a := scores.Dims()
	out := make([]float64, a)
	col := make([]float64, n)
	for j := 0; j < a; j++ {
		mat.Col(col, j, scores)
		sd := stat.StdDev(col, nil)
		if sd == 0 || math.IsNaN(sd) {
			sd = 1.0
		}
		out[j] = sd
	}
	return out
}

// hotellingT2 computes the T2 statistic per row of the score matrix.
func hotellingT2(scores *mat.Dense, scoreSD []float64) []float64 {
	n, a := scores.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var t2 float64
		for j := 0; j < a; j++ {
			z := scores.At(i, j) / scoreSD[j]
			t2 += z * z
		}
		out[i] = t2
	}
	return out
}

// rowSSQ returns the observed sum of squares per row, i.e. the SPE when
// applied to a residual matrix.
func rowSSQ(m *MaskedMatrix) []float64 {
	n, k := m.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var total float64
		for j := 0; j < k; j++ {
			if !m.Observed(i, j) {
				continue
			}
			v := m.At(i, j)
			total += v * v
		}
		out[i] = total
	}
	return out
}

func lastOrZero(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return v[len(v)-1]
}
