package multivariate

import (
	"strings"
	"testing"

	"github.com/YuminosukeSato/spcgo/pkg/errors"
)

func TestNewPCA_InvalidComponentCount(t *testing.T) {
	if _, err := NewPCA(0); err == nil {
		t.Error("zero components should be rejected")
	}
	if _, err := NewPCA(-3); err == nil {
		t.Error("negative components should be rejected")
	}
	if _, err := NewPLS(0); err == nil {
		t.Error("zero components should be rejected for PLS too")
	}
}

func TestOptions_Method(t *testing.T) {
	if _, err := NewPCA(2, WithMethod("nipals")); err != nil {
		t.Errorf("nipals should be accepted: %v", err)
	}

	// Recognized but unimplemented methods get a different message than
	// unknown ones.
	_, err := NewPCA(2, WithMethod("svd"))
	if err == nil || !strings.Contains(err.Error(), "not supported yet") {
		t.Errorf("svd: expected a 'not supported yet' error, got %v", err)
	}
	_, err = NewPCA(2, WithMethod("eig"))
	if err == nil || !strings.Contains(err.Error(), "not supported yet") {
		t.Errorf("eig: expected a 'not supported yet' error, got %v", err)
	}
	_, err = NewPCA(2, WithMethod("SVDS"))
	if err == nil || !strings.Contains(err.Error(), "not known") {
		t.Errorf("SVDS: expected a 'not known' error, got %v", err)
	}

	var valueErr *errors.ValueError
	if !errors.As(err, &valueErr) {
		t.Errorf("expected a ValueError, got %v", err)
	}
}

func TestOptions_MissingDataMethod(t *testing.T) {
	if _, err := NewPCA(2, WithMissingDataMethod("pmp")); err != nil {
		t.Errorf("pmp should be accepted: %v", err)
	}

	_, err := NewPCA(2, WithMissingDataMethod("scp"))
	if err == nil || !strings.Contains(err.Error(), "not supported yet") {
		t.Errorf("scp: expected a 'not supported yet' error, got %v", err)
	}
	_, err = NewPCA(2, WithMissingDataMethod("tsr"))
	if err == nil || !strings.Contains(err.Error(), "not supported yet") {
		t.Errorf("tsr: expected a 'not supported yet' error, got %v", err)
	}
	_, err = NewPCA(2, WithMissingDataMethod("SCP"))
	if err == nil || !strings.Contains(err.Error(), "not known") {
		t.Errorf("SCP: expected a 'not known' error, got %v", err)
	}
}

func TestOptions_Tolerance(t *testing.T) {
	if _, err := NewPCA(2, WithTolerance(1e-8)); err != nil {
		t.Errorf("a tolerance inside (1e-16, 1) should be accepted: %v", err)
	}

	for _, tol := range []float64{0, 1e-16, 1.0, 2.5, -1e-6} {
		_, err := NewPCA(2, WithTolerance(tol))
		if err == nil {
			t.Errorf("tolerance %g should be rejected", tol)
			continue
		}
		if !strings.Contains(err.Error(), "tolerance must be between 1E-16 and 1.0") {
			t.Errorf("tolerance %g: unexpected message %q", tol, err.Error())
		}
	}
}

func TestOptions_MaxIterations(t *testing.T) {
	if _, err := NewPCA(2, WithMaxIterations(1)); err != nil {
		t.Errorf("one iteration should be accepted: %v", err)
	}

	_, err := NewPCA(2, WithMaxIterations(0))
	var validationErr *errors.ValidationError
	if err == nil || !errors.As(err, &validationErr) {
		t.Errorf("zero iterations: expected a ValidationError, got %v", err)
	}
}

func TestOptions_SPEPolicy(t *testing.T) {
	if _, err := NewPCA(2, WithSPEPolicy(SPEPolicy{CenterThreshold: 0})); err != nil {
		t.Errorf("a zero threshold should be accepted: %v", err)
	}
	if _, err := NewPCA(2, WithSPEPolicy(SPEPolicy{CenterThreshold: -1})); err == nil {
		t.Error("a negative threshold should be rejected")
	}
}

func TestOptions_ApplyToPLS(t *testing.T) {
	// The same validation runs for both model kinds.
	if _, err := NewPLS(1, WithMethod("robustpca")); err == nil {
		t.Error("an unknown method should be rejected for PLS")
	}
	if _, err := NewPLS(1, WithTolerance(0)); err == nil {
		t.Error("an invalid tolerance should be rejected for PLS")
	}
}
