package multivariate

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/spcgo/pkg/errors"
)

func TestSeedColumn(t *testing.T) {
	m := MaskedFromMatrix(mat.NewDense(3, 3, []float64{
		1, 5, 2,
		1, 5, 2,
		1, 5, 2,
	}))
	got := seedColumn(m)
	want := []float64{5, 5, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("seed column: expected %v, got %v", want, got)
			break
		}
	}
}

func TestSeedColumn_TieBreaksLow(t *testing.T) {
	m := MaskedFromMatrix(mat.NewDense(2, 3, []float64{
		3, 3, 1,
		4, 4, 1,
	}))
	got := seedColumn(m)
	if got[0] != 3 || got[1] != 4 {
		t.Errorf("tied columns should resolve to the lowest index, got %v", got)
	}
}

func TestDeltaNorm(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{1, 2, 3}
	if got := deltaNorm(a, b); got != 0 {
		t.Errorf("identical vectors: expected 0, got %f", got)
	}

	c := []float64{4, 6, 3}
	if got := deltaNorm(a, c); math.Abs(got-5) > 1e-12 {
		t.Errorf("expected 5, got %f", got)
	}
}

func TestDeflate(t *testing.T) {
	m := MaskedFromMatrix(mat.NewDense(2, 2, []float64{
		2, 4,
		3, 6,
	}))
	// The matrix is exactly t*v' with t=[1 1.5] and v=[2 4].
	deflate(m, []float64{1, 1.5}, []float64{2, 4})
	if SSQ(m) > 1e-24 {
		t.Errorf("exact rank-one deflation should leave zero residual, got SSQ %g", SSQ(m))
	}
}

func TestDeflate_SkipsUnobserved(t *testing.T) {
	m, err := NewMaskedMatrix(mat.NewDense(2, 2, []float64{
		2, 4,
		3, 0,
	}), []bool{true, true, true, false})
	if err != nil {
		t.Fatalf("Failed to build mask: %v", err)
	}
	deflate(m, []float64{1, 1.5}, []float64{2, 4})
	if m.At(1, 1) != 0 {
		t.Errorf("unobserved cell should stay 0, got %f", m.At(1, 1))
	}
}

func TestExtractPCA_RankOneConvergesImmediately(t *testing.T) {
	// Rank-one data: the seed is already the dominant score, so the pass
	// converges in two iterations and explains everything.
	m := MaskedFromMatrix(mat.NewDense(3, 2, []float64{
		1, 2,
		2, 4,
		3, 6,
	}))

	nl := nipals{tolerance: 1e-10, maxIter: 200}
	comp := nl.extractPCA(m)

	if !comp.converged {
		t.Fatal("rank-one extraction should converge")
	}
	if SSQ(m) > 1e-20 {
		t.Errorf("residual after extracting the only component: expected ~0, got %g", SSQ(m))
	}
	norm := math.Sqrt(ssqVec(comp.loadings))
	if math.Abs(norm-1) > 1e-12 {
		t.Errorf("loading norm: expected 1, got %f", norm)
	}
}

func TestPCA_ConvergenceWarning(t *testing.T) {
	warnings := captureWarnings(t)

	// A one-iteration cap cannot satisfy the tolerance, so the fit keeps
	// the last iterate and warns.
	pca, err := NewPCA(1, WithMaxIterations(1))
	if err != nil {
		t.Fatalf("Failed to create model: %v", err)
	}
	if err := pca.Fit(randomMatrix(20, 5)); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	var conv *errors.ConvergenceWarning
	found := false
	for _, w := range *warnings {
		if errors.As(w, &conv) {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a ConvergenceWarning")
	}
	if conv.Iterations != 1 {
		t.Errorf("iterations in warning: expected 1, got %d", conv.Iterations)
	}
	if conv.Delta < conv.Tolerance {
		t.Errorf("warning delta %g should be at or above the tolerance %g", conv.Delta, conv.Tolerance)
	}

	// The last iterate is kept: the model is still fitted and usable.
	if !pca.IsFitted() {
		t.Error("model should be fitted despite the warning")
	}
}
