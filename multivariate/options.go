package multivariate

import (
	"fmt"

	"github.com/YuminosukeSato/spcgo/pkg/errors"
)

// Defaults for the NIPALS iteration.
const (
	// DefaultTolerance is the convergence tolerance on the Euclidean norm
	// of the score-vector change between iterations.
	DefaultTolerance = 1e-10

	// DefaultMaxIterations caps the NIPALS iteration per component.
	DefaultMaxIterations = 200

	// DefaultEllipsePoints is the conventional resolution of the
	// confidence-ellipse sweep.
	DefaultEllipsePoints = 100
)

// SPEPolicy controls how the squared-prediction-error limit estimates the
// central tendency of the SPE distribution. Above CenterThreshold
// observations the median is used to resist outliers; at or below it the
// mean is used. The estimator choice is a policy, not a law; validate it
// against a reference statistical package before trusting small-sample
// limits.
type SPEPolicy struct {
	CenterThreshold int
}

// DefaultSPEPolicy mirrors the conventional median/mean switch at N > 7.
func DefaultSPEPolicy() SPEPolicy {
	return SPEPolicy{CenterThreshold: 7}
}

type config struct {
	method    string
	mdMethod  string
	tolerance float64
	maxIter   int
	spePolicy SPEPolicy
}

// Option configures a PCA or PLS model at construction time.
type Option func(*config)

// WithMethod selects the component extraction method. Only "nipals" is
// implemented; "svd" and "eig" are recognized but not supported.
func WithMethod(method string) Option {
	return func(c *config) { c.method = method }
}

// WithMissingDataMethod selects the missing-data strategy. Only "pmp"
// (projection to model plane) is implemented; "scp" and "tsr" are
// recognized but not supported.
func WithMissingDataMethod(method string) Option {
	return func(c *config) { c.mdMethod = method }
}

// WithTolerance sets the NIPALS convergence tolerance. Must lie in the
// open interval (1e-16, 1.0).
func WithTolerance(tol float64) Option {
	return func(c *config) { c.tolerance = tol }
}

// WithMaxIterations sets the NIPALS iteration cap per component.
func WithMaxIterations(n int) Option {
	return func(c *config) { c.maxIter = n }
}

// WithSPEPolicy overrides the SPE-limit center policy.
func WithSPEPolicy(p SPEPolicy) Option {
	return func(c *config) { c.spePolicy = p }
}

func newConfig(op string, opts ...Option) (config, error) {
	c := config{
		method:    "nipals",
		mdMethod:  "pmp",
		tolerance: DefaultTolerance,
		maxIter:   DefaultMaxIterations,
		spePolicy: DefaultSPEPolicy(),
	}
	for _, opt := range opts {
		opt(&c)
	}

	switch c.method {
	case "nipals":
	case "svd", "eig":
		return c, errors.NewValueError(op, fmt.Sprintf("method '%s' is not supported yet", c.method))
	default:
		return c, errors.NewValueError(op, fmt.Sprintf("method '%s' is not known", c.method))
	}

	switch c.mdMethod {
	case "pmp":
	case "scp", "tsr":
		return c, errors.NewValueError(op, fmt.Sprintf("missing data method '%s' is not supported yet", c.mdMethod))
	default:
		return c, errors.NewValueError(op, fmt.Sprintf("missing data method '%s' is not known", c.mdMethod))
	}

	if c.tolerance <= 1e-16 || c.tolerance >= 1.0 {
		return c, errors.NewValueError(op, "tolerance must be between 1E-16 and 1.0")
	}

	if c.maxIter < 1 {
		return c, errors.NewValidationError("maxIterations", "must be at least 1", c.maxIter)
	}

	if c.spePolicy.CenterThreshold < 0 {
		return c, errors.NewValidationError("spePolicy.CenterThreshold", "must be non-negative", c.spePolicy.CenterThreshold)
	}

	return c, nil
}
