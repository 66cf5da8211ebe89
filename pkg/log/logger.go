// Package log provides the structured logging facade used by spcgo.
//
// The facade is backed by zerolog and is silent by default: the package
// starts with a disabled logger so library code can emit debug events
// unconditionally without polluting host-application output. Applications
// opt in by calling Setup (or SetLogger with their own zerolog.Logger).
//
// Library warnings raised through pkg/errors are bridged into zerolog by
// HookWarnings, so ConvergenceWarning and friends appear as structured
// warn-level events.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	spcerrors "github.com/YuminosukeSato/spcgo/pkg/errors"
)

// Common structured attribute keys used across fit and predict logging.
const (
	ModelKey        = "model"
	OperationKey    = "operation"
	ObservationsKey = "observations"
	VariablesKey    = "variables"
	ComponentsKey   = "components"
	IterationsKey   = "iterations"
	ToleranceKey    = "tolerance"
	R2Key           = "r2_cumulative"
)

var (
	mu     sync.RWMutex
	logger = zerolog.Nop()
)

// Setup installs a zerolog logger writing to w at the given level and
// bridges library warnings into it. Passing a nil writer selects stderr.
func Setup(w io.Writer, level zerolog.Level) {
	if w == nil {
		w = os.Stderr
	}
	l := zerolog.New(w).Level(level).With().Timestamp().Logger()
	SetLogger(l)
}

// SetLogger replaces the package logger and hooks warning dispatch.
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
	HookWarnings()
}

// Logger returns the current package logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// With returns a child logger tagged with the given model name. Fit and
// predict code uses it so every event carries the estimator identity.
func With(model string) zerolog.Logger {
	return Logger().With().Str(ModelKey, model).Logger()
}

// HookWarnings routes pkg/errors warnings through the package logger.
// Warnings that implement zerolog.LogObjectMarshaler are embedded as a
// structured object, others fall back to their Error string.
func HookWarnings() {
	spcerrors.SetZerologWarnFunc(func(warning error) {
		l := Logger()
		if marshaler, ok := warning.(zerolog.LogObjectMarshaler); ok {
			l.Warn().Object("warning", marshaler).Msg(warning.Error())
			return
		}
		l.Warn().Msg(warning.Error())
	})
}
