// Package errors provides the error and warning system used across spcgo.
// It mirrors the warning/exception taxonomy of chemometrics tooling:
// hard specification errors stop a fit before any state is mutated, while
// warnings (clamped component counts, non-convergence, rank exhaustion)
// are dispatched through a process-wide handler and the fit proceeds.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("spcgo-Warning: %v\n", w)
	}
	// zerolog sink, wired lazily to avoid an import cycle with pkg/log.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler sets the warning handler for the whole library.
// It controls how recoverable conditions such as SpecificationWarning or
// ConvergenceWarning are surfaced.
//
// Example:
//
//	errors.SetWarningHandler(func(w error) {
//	    // collect warnings instead of logging them
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc installs a zerolog-backed warning sink.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn raises a warning. If a zerolog sink is installed it takes priority,
// otherwise the plain handler is used.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warning types
//
// ===========================================================================

// ConvergenceWarning is raised when an iterative algorithm hits its
// iteration cap before reaching the convergence tolerance. The last
// iterate is still used, so the result is best-effort rather than absent.
type ConvergenceWarning struct {
	Algorithm  string
	Component  int
	Iterations int
	Delta      float64
	Tolerance  float64
}

func (w *ConvergenceWarning) Error() string {
	return fmt.Sprintf("%s did not converge for component %d after %d iterations: delta %.3e above tolerance %.3e",
		w.Algorithm, w.Component, w.Iterations, w.Delta, w.Tolerance)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("component", w.Component).
		Int("iterations", w.Iterations).
		Float64("delta", w.Delta).
		Float64("tolerance", w.Tolerance).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning creates a new ConvergenceWarning.
func NewConvergenceWarning(algorithm string, component, iterations int, delta, tolerance float64) *ConvergenceWarning {
	return &ConvergenceWarning{
		Algorithm:  algorithm,
		Component:  component,
		Iterations: iterations,
		Delta:      delta,
		Tolerance:  tolerance,
	}
}

// SpecificationWarning is raised when a caller request is valid but cannot
// be honoured as stated and is adjusted instead, e.g. a component count
// larger than the data can support being clamped to min(N-1, K).
type SpecificationWarning struct {
	Model     string
	Parameter string
	Requested interface{}
	Used      interface{}
	Reason    string
}

func (w *SpecificationWarning) Error() string {
	return fmt.Sprintf("%s: the requested %s (%v) was adjusted to %v: %s",
		w.Model, w.Parameter, w.Requested, w.Used, w.Reason)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *SpecificationWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("model", w.Model).
		Str("parameter", w.Parameter).
		Interface("requested", w.Requested).
		Interface("used", w.Used).
		Str("reason", w.Reason).
		Str("type", "SpecificationWarning")
}

// NewSpecificationWarning creates a new SpecificationWarning.
func NewSpecificationWarning(model, parameter string, requested, used interface{}, reason string) *SpecificationWarning {
	return &SpecificationWarning{
		Model:     model,
		Parameter: parameter,
		Requested: requested,
		Used:      used,
		Reason:    reason,
	}
}

// RankExhaustionWarning is raised when the deflated residual has no
// numerically meaningful variance left before the requested number of
// components was extracted. The remaining components are zero, not
// fabricated.
type RankExhaustionWarning struct {
	Model      string
	Requested  int
	Extracted  int
	ResidualSS float64
}

func (w *RankExhaustionWarning) Error() string {
	return fmt.Sprintf("%s: residual variance exhausted after %d of %d components (residual sum of squares %.3e); remaining components are zero",
		w.Model, w.Extracted, w.Requested, w.ResidualSS)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *RankExhaustionWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("model", w.Model).
		Int("requested", w.Requested).
		Int("extracted", w.Extracted).
		Float64("residual_ss", w.ResidualSS).
		Str("type", "RankExhaustionWarning")
}

// NewRankExhaustionWarning creates a new RankExhaustionWarning.
func NewRankExhaustionWarning(model string, requested, extracted int, residualSS float64) *RankExhaustionWarning {
	return &RankExhaustionWarning{
		Model:      model,
		Requested:  requested,
		Extracted:  extracted,
		ResidualSS: residualSS,
	}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// NotFittedError is returned when Predict, Transform or a limit
// computation is called on a model that has not been fitted.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("spcgo: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace attached.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError is returned when input dimensions do not match the
// fitted model or the expectations of an operation.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/variables
}

func (e *DimensionError) Error() string {
	axisName := "variables"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("spcgo: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "variables"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace attached.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError is returned when a parameter fails validation at
// construction time, before any computation runs.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("spcgo: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stack trace attached.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError is returned when an argument value is invalid for the
// operation, e.g. an unknown extraction method name or a confidence
// level outside (0, 1).
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("spcgo: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace attached.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// UnsupportedDataError is returned when the input data representation is
// of a kind the model cannot consume, e.g. sparse matrices.
type UnsupportedDataError struct {
	Op       string
	DataKind string
}

func (e *UnsupportedDataError) Error() string {
	return fmt.Sprintf("spcgo: %s: %s input is not supported", e.Op, e.DataKind)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *UnsupportedDataError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("data_kind", e.DataKind).
		Str("type", "UnsupportedDataError")
}

// NewUnsupportedDataError creates an UnsupportedDataError with a stack
// trace attached.
func NewUnsupportedDataError(op, dataKind string) error {
	err := &UnsupportedDataError{Op: op, DataKind: dataKind}
	return errors.WithStack(err)
}

// ModelError is a general model-level error wrapping an underlying cause.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("spcgo: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("spcgo: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a ModelError with a stack trace attached.
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches the target error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As reports whether err can be assigned to target's type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack attaches a stack trace to an error.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common sentinel errors
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an empty matrix is passed in.
	ErrEmptyData = New("empty data")

	// ErrAllMissing is returned when a row or column used in fitting has
	// no observed values at all.
	ErrAllMissing = New("row or column has no observed values")
)
