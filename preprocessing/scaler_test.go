package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// Fixture from Wold, Esbensen and Geladi (1987), Principal Component
// Analysis, Chemom. Intell. Lab. Syst. 2, p37-52.
func woldMatrix() *mat.Dense {
	return mat.NewDense(3, 4, []float64{
		3, 4, 2, 2,
		4, 3, 4, 3,
		5, 5, 6, 4,
	})
}

func TestMCUVScaler_Centers(t *testing.T) {
	scaler := NewMCUVScaler()
	if err := scaler.Fit(woldMatrix()); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	wantCenters := []float64{4, 4, 4, 3}
	for j, want := range wantCenters {
		if math.Abs(scaler.Center[j]-want) > 1e-9 {
			t.Errorf("Center[%d]: expected %f, got %f", j, want, scaler.Center[j])
		}
	}
}

func TestMCUVScaler_ScalingFactors(t *testing.T) {
	scaler := NewMCUVScaler()
	if err := scaler.Fit(woldMatrix()); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	// Page 40 of the Wold et al. paper, with ddof=1.
	wantFactors := []float64{1, 1, 0.5, 1}
	factors := scaler.ScalingFactors()
	for j, want := range wantFactors {
		if math.Abs(factors[j]-want) > 1e-9 {
			t.Errorf("ScalingFactors[%d]: expected %f, got %f", j, want, factors[j])
		}
	}
}

func TestMCUVScaler_TransformedColumnsAreStandardized(t *testing.T) {
	scaler := NewMCUVScaler()
	scaled, err := scaler.FitTransform(woldMatrix())
	if err != nil {
		t.Fatalf("Failed to fit-transform: %v", err)
	}

	r, c := scaled.Dims()
	for j := 0; j < c; j++ {
		var sum, sumSq float64
		for i := 0; i < r; i++ {
			sum += scaled.At(i, j)
		}
		mean := sum / float64(r)
		for i := 0; i < r; i++ {
			d := scaled.At(i, j) - mean
			sumSq += d * d
		}
		std := math.Sqrt(sumSq / float64(r-1))

		if math.Abs(mean) > 1e-9 {
			t.Errorf("column %d mean: expected 0, got %g", j, mean)
		}
		if math.Abs(std-1) > 1e-9 {
			t.Errorf("column %d std: expected 1, got %g", j, std)
		}
	}
}

func TestMCUVScaler_RoundTrip(t *testing.T) {
	X := woldMatrix()
	scaler := NewMCUVScaler()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("Failed to fit-transform: %v", err)
	}

	back, err := scaler.InverseTransform(scaled)
	if err != nil {
		t.Fatalf("Failed to inverse-transform: %v", err)
	}

	r, c := X.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.Abs(back.At(i, j)-X.At(i, j)) > 1e-9 {
				t.Errorf("round trip at (%d,%d): expected %f, got %f", i, j, X.At(i, j), back.At(i, j))
			}
		}
	}
}

func TestMCUVScaler_ZeroVarianceColumn(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 7,
		2, 7,
		3, 7,
		4, 7,
	})

	scaler := NewMCUVScaler()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("Failed to fit-transform: %v", err)
	}

	if scaler.Scale[1] != 1.0 {
		t.Errorf("zero-variance column scale: expected 1.0, got %f", scaler.Scale[1])
	}

	// The constant column is centered but left unscaled.
	for i := 0; i < 4; i++ {
		if scaled.At(i, 1) != 0 {
			t.Errorf("zero-variance column at row %d: expected 0, got %f", i, scaled.At(i, 1))
		}
	}
}

func TestMCUVScaler_NotFitted(t *testing.T) {
	scaler := NewMCUVScaler()
	if _, err := scaler.Transform(woldMatrix()); err == nil {
		t.Error("Transform on an unfitted scaler should fail")
	}
	if _, err := scaler.InverseTransform(woldMatrix()); err == nil {
		t.Error("InverseTransform on an unfitted scaler should fail")
	}
}

func TestMCUVScaler_DimensionMismatch(t *testing.T) {
	scaler := NewMCUVScaler()
	if err := scaler.Fit(woldMatrix()); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	bad := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	if _, err := scaler.Transform(bad); err == nil {
		t.Error("Transform with mismatched columns should fail")
	}
}
