package net

import (
	"testing"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// TestFlattenRoundTrip tests that Unflatten inverts Flatten exactly.
func TestFlattenRoundTrip(t *testing.T) {
	topology := Topology{3, 4, 2, 1}
	flat := make([]float64, topology.NumWeights())
	for i := range flat {
		flat[i] = float64(i)*0.25 - 3
	}

	weights, err := Unflatten(flat, topology)
	if err != nil {
		t.Fatalf("Unflatten: %v", err)
	}
	if len(weights) != topology.Layers() {
		t.Fatalf("got %d matrices, want %d", len(weights), topology.Layers())
	}
	for i, w := range weights {
		r, c := w.Dims()
		if r != topology[i] || c != topology[i+1] {
			t.Errorf("matrix %d is %dx%d, want %dx%d", i, r, c, topology[i], topology[i+1])
		}
	}

	back := Flatten(weights)
	if len(back) != len(flat) {
		t.Fatalf("round trip length = %d, want %d", len(back), len(flat))
	}
	for i := range flat {
		if back[i] != flat[i] {
			t.Errorf("element %d = %v, want %v", i, back[i], flat[i])
		}
	}
}

// TestUnflattenLayout tests row-major filling of each matrix.
func TestUnflattenLayout(t *testing.T) {
	weights, err := Unflatten([]float64{1, 2, 3, 4, 5, 6, 7, 8}, Topology{2, 3, 2})
	if err != nil {
		t.Fatalf("Unflatten: %v", err)
	}

	want0 := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	if !mat.Equal(weights[0], want0) {
		t.Errorf("first matrix = %v, want %v", mat.Formatted(weights[0]), mat.Formatted(want0))
	}
	// The leftover two elements do not fill a 3x2 matrix.
	if _, err := Unflatten([]float64{1, 2, 3, 4, 5, 6, 7, 8}, Topology{2, 3, 1}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}

// TestUnflattenCopies tests that matrices do not alias the flat vector.
func TestUnflattenCopies(t *testing.T) {
	flat := []float64{1, 2}
	weights, err := Unflatten(flat, Topology{2, 1})
	if err != nil {
		t.Fatalf("Unflatten: %v", err)
	}
	flat[0] = 100
	if weights[0].At(0, 0) != 1 {
		t.Errorf("matrix changed with its source: %v", weights[0].At(0, 0))
	}
}

// TestUnflattenShapeMismatch tests rejection of vectors of the wrong length.
func TestUnflattenShapeMismatch(t *testing.T) {
	topology := Topology{2, 2}
	for _, n := range []int{0, 3, 5} {
		if _, err := Unflatten(make([]float64, n), topology); !errors.Is(err, ErrShapeMismatch) {
			t.Errorf("length %d: expected ErrShapeMismatch, got %v", n, err)
		}
	}
}

// TestTopologyValidate tests degenerate topologies.
func TestTopologyValidate(t *testing.T) {
	tests := []struct {
		name     string
		topology Topology
		wantErr  bool
	}{
		{"empty", Topology{}, true},
		{"single", Topology{3}, true},
		{"zero width", Topology{3, 0, 1}, true},
		{"negative width", Topology{3, -2}, true},
		{"no hidden", Topology{3, 1}, false},
		{"deep", Topology{3, 4, 4, 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.topology.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if got := (Topology{3, 4, 2}).NumWeights(); got != 20 {
		t.Errorf("NumWeights = %d, want 20", got)
	}
	if got := (Topology{3}).NumWeights(); got != 0 {
		t.Errorf("NumWeights of a single layer = %d, want 0", got)
	}
}

// TestCheckWeights tests shape validation of matrix lists.
func TestCheckWeights(t *testing.T) {
	topology := Topology{2, 3, 1}
	good := []*mat.Dense{mat.NewDense(2, 3, nil), mat.NewDense(3, 1, nil)}
	if err := checkWeights(good, topology); err != nil {
		t.Errorf("checkWeights(good) = %v", err)
	}

	transposed := []*mat.Dense{mat.NewDense(3, 2, nil), mat.NewDense(3, 1, nil)}
	if err := checkWeights(transposed, topology); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
	if err := checkWeights(good[:1], topology); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch for missing matrix, got %v", err)
	}
}
