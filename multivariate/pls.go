package multivariate

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/spcgo/core/model"
	"github.com/YuminosukeSato/spcgo/pkg/errors"
	"github.com/YuminosukeSato/spcgo/pkg/log"
	"github.com/YuminosukeSato/spcgo/preprocessing"
)

// PLS is a projection-to-latent-structures (partial least squares)
// regression model fitted with NIPALS, with the same monitoring
// diagnostics as PCA plus response prediction.
//
// Both the predictor block X and the response block Y are preprocessed
// internally (mean centering, unit variance with ddof=1); predictions are
// reported back in original response units.
type PLS struct {
	model.BaseEstimator

	cfg config

	// Requested is the component count asked for at construction.
	Requested int

	// A is the component count actually used after any clamping.
	A int

	// N, K and M are the fitted data dimensions: observations, predictor
	// variables and response variables.
	N, K, M int

	// Weights is the K x A predictor weight matrix W with orthonormal
	// columns; scores for new data are computed against W.
	Weights *mat.Dense

	// Loadings is the K x A predictor loading matrix P used for
	// deflation and reconstruction.
	Loadings *mat.Dense

	// YLoadings is the M x A response loading matrix C.
	YLoadings *mat.Dense

	// Scores is the N x A training score matrix T; YScores is the N x A
	// response-block score matrix U.
	Scores  *mat.Dense
	YScores *mat.Dense

	// R2X and R2Y are the per-component fractions of the preprocessed
	// X and Y sums of squares explained; R2XCum and R2YCum are their
	// running totals.
	R2X    []float64
	R2XCum []float64
	R2Y    []float64
	R2YCum []float64

	// ScoreSD is the sample standard deviation (ddof=1) per score column.
	ScoreSD []float64

	// HotellingT2 and SPE are the per-observation training diagnostics.
	HotellingT2 []float64
	SPE         []float64

	// Predictions holds the training-set response predictions in
	// original units (N x M).
	Predictions *mat.Dense

	xScaler *preprocessing.MCUVScaler
	yScaler *preprocessing.MCUVScaler
}

// NewPLS creates a PLS model extracting nComponents latent components.
func NewPLS(nComponents int, opts ...Option) (*PLS, error) {
	if nComponents < 1 {
		return nil, errors.NewValueError("NewPLS", "the number of components must be at least 1")
	}
	cfg, err := newConfig("NewPLS", opts...)
	if err != nil {
		return nil, err
	}
	return &PLS{cfg: cfg, Requested: nComponents}, nil
}

// Fit fits the model on fully observed predictor and response blocks.
func (m *PLS) Fit(X, Y mat.Matrix) error {
	if _, ok := X.(model.Sparse); ok {
		return errors.NewUnsupportedDataError("PLS.Fit", "sparse")
	}
	if _, ok := Y.(model.Sparse); ok {
		return errors.NewUnsupportedDataError("PLS.Fit", "sparse")
	}
	return m.FitMasked(MaskedFromMatrix(X), MaskedFromMatrix(Y))
}

// FitMasked fits the model on data with explicit observed masks.
// Like PCA.FitMasked, a repeated call re-runs from scratch.
func (m *PLS) FitMasked(X, Y *MaskedMatrix) error {
	const op = "PLS.Fit"
	n, k := X.Dims()
	ny, my := Y.Dims()
	if n == 0 || k == 0 || my == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if ny != n {
		return errors.NewDimensionError(op, n, ny, 0)
	}
	if n < 2 {
		return errors.NewValueError(op, "at least 2 observations are required")
	}
	if err := X.validate(op); err != nil {
		return err
	}
	if err := Y.validate(op); err != nil {
		return err
	}

	m.Reset()
	m.N, m.K, m.M = n, k, my
	m.A = clampComponents("PLS", m.Requested, n, k)

	xScaler, err := maskedScaler(X)
	if err != nil {
		return err
	}
	yScaler, err := maskedScaler(Y)
	if err != nil {
		return err
	}
	m.xScaler, m.yScaler = xScaler, yScaler

	E := applyScaler(X, xScaler)
	F := applyScaler(Y, yScaler)

	nl := newNIPALS(m.cfg)
	baseSSX := SSQ(E)
	baseSSY := SSQ(F)

	yResidSS := make([]float64, 0, m.A)
	ex := extraction{model: "PLS", nl: nl, a: m.A, n: n, k: k, m: my, baseSS: baseSSX}
	ex.residualSS = func() float64 { return SSQ(E) }
	ex.extract = func() component {
		comp := nl.extractPLS(E, F)
		yResidSS = append(yResidSS, SSQ(F))
		return comp
	}
	comps, err := extractComponents(ex)
	if err != nil {
		return err
	}

	m.Scores = mat.NewDense(n, m.A, nil)
	m.YScores = mat.NewDense(n, m.A, nil)
	m.Weights = mat.NewDense(k, m.A, nil)
	m.Loadings = mat.NewDense(k, m.A, nil)
	m.YLoadings = mat.NewDense(my, m.A, nil)
	for a, comp := range comps {
		m.Scores.SetCol(a, comp.scores)
		m.YScores.SetCol(a, comp.yScores)
		m.Weights.SetCol(a, comp.weights)
		m.Loadings.SetCol(a, comp.loadings)
		m.YLoadings.SetCol(a, comp.yLoadings)
	}
	m.R2X, m.R2XCum = explainedVariance(baseSSX, comps)
	m.R2Y, m.R2YCum = yExplainedVariance(baseSSY, yResidSS, m.A)

	m.ScoreSD = scoreStdDevs(m.Scores)
	m.HotellingT2 = hotellingT2(m.Scores, m.ScoreSD)
	m.SPE = rowSSQ(E)

	m.Predictions, err = m.reconstructY(m.Scores)
	if err != nil {
		return err
	}

	m.SetFitted()

	lg := log.With("PLS")
	lg.Debug().
		Str(log.OperationKey, "fit").
		Int(log.ObservationsKey, n).
		Int(log.VariablesKey, k).
		Int(log.ComponentsKey, m.A).
		Float64(log.R2Key, lastOrZero(m.R2YCum)).
		Msg("model fitted")

	return nil
}

// Predict projects new observations onto the fitted model and
// reconstructs the response in original units. The returned Projection
// is independent of the model's training state.
func (m *PLS) Predict(X mat.Matrix) (*Projection, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("PLS", "Predict")
	}
	r, c := X.Dims()
	if c != m.K {
		return nil, errors.NewDimensionError("PLS.Predict", m.K, c, 1)
	}

	scaled, err := m.xScaler.Transform(X)
	if err != nil {
		return nil, err
	}
	E := mat.DenseCopyOf(scaled)

	scores := mat.NewDense(r, m.A, nil)
	w := make([]float64, m.K)
	p := make([]float64, m.K)
	for a := 0; a < m.A; a++ {
		mat.Col(w, a, m.Weights)
		mat.Col(p, a, m.Loadings)
		for i := 0; i < r; i++ {
			var t float64
			for j := 0; j < m.K; j++ {
				t += E.At(i, j) * w[j]
			}
			scores.Set(i, a, t)
			for j := 0; j < m.K; j++ {
				E.Set(i, j, E.At(i, j)-t*p[j])
			}
		}
	}

	yHat, err := m.reconstructY(scores)
	if err != nil {
		return nil, err
	}

	proj := &Projection{
		Scores:      scores,
		HotellingT2: hotellingT2(scores, m.ScoreSD),
		SPE:         rowSSQ(MaskedFromMatrix(E)),
		YHat:        yHat,
	}
	return proj, nil
}

// T2Limit returns the Hotelling's T2 control limit for this model at the
// given confidence level.
func (m *PLS) T2Limit(confLevel float64) (float64, error) {
	if !m.IsFitted() {
		return 0, errors.NewNotFittedError("PLS", "T2Limit")
	}
	return TSquaredLimit(m.A, m.N, confLevel)
}

// SPELimit returns the SPE control limit for this model at the given
// confidence level, using the model's SPE policy.
func (m *PLS) SPELimit(confLevel float64) (float64, error) {
	if !m.IsFitted() {
		return 0, errors.NewNotFittedError("PLS", "SPELimit")
	}
	return SPELimitFor(m.SPE, confLevel, m.cfg.spePolicy)
}

// EllipseCoordinates returns nPoints coordinates of the confidence
// ellipse for the score pair (scoreH, scoreV) at the given confidence
// level. Score dimensions are zero-indexed.
func (m *PLS) EllipseCoordinates(scoreH, scoreV int, confLevel float64, nPoints int) (x, y []float64, err error) {
	if !m.IsFitted() {
		return nil, nil, errors.NewNotFittedError("PLS", "EllipseCoordinates")
	}
	if scoreH < 0 || scoreH >= m.A || scoreV < 0 || scoreV >= m.A {
		return nil, nil, errors.NewValueError("PLS.EllipseCoordinates", "score dimension out of range")
	}
	t2, err := m.T2Limit(confLevel)
	if err != nil {
		return nil, nil, err
	}
	return EllipseCoordinates(m.ScoreSD[scoreH], m.ScoreSD[scoreV], t2, nPoints)
}

// reconstructY maps scores back to response predictions in original
// units: Yhat = T * C' rescaled through the stored response scaler.
func (m *PLS) reconstructY(scores *mat.Dense) (*mat.Dense, error) {
	var scaled mat.Dense
	scaled.Mul(scores, m.YLoadings.T())
	raw, err := m.yScaler.InverseTransform(&scaled)
	if err != nil {
		return nil, err
	}
	return mat.DenseCopyOf(raw), nil
}

// yExplainedVariance mirrors explainedVariance for the response block,
// padding with the last residual when rank exhaustion produced zero
// components.
func yExplainedVariance(baseSS float64, residSS []float64, a int) (r2, r2cum []float64) {
	r2 = make([]float64, a)
	r2cum = make([]float64, a)
	if baseSS == 0 {
		return r2, r2cum
	}
	prevSS := baseSS
	for i := 0; i < a; i++ {
		cur := prevSS
		if i < len(residSS) {
			cur = residSS[i]
		}
		r2[i] = (prevSS - cur) / baseSS
		r2cum[i] = 1 - cur/baseSS
		prevSS = cur
	}
	return r2, r2cum
}
