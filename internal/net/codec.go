package net

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrShapeMismatch is returned when a weight vector or matrix does not fit
// the topology it is used with.
var ErrShapeMismatch = errors.New("shape does not match topology")

// Topology lists layer widths from input to output. The input width includes
// the bias column when one is used.
type Topology []int

// Layers returns the number of weight matrices.
func (t Topology) Layers() int {
	if len(t) < 2 {
		return 0
	}
	return len(t) - 1
}

// NumWeights returns the length of a flat weight vector for t.
func (t Topology) NumWeights() int {
	total := 0
	for i := 0; i < t.Layers(); i++ {
		total += t[i] * t[i+1]
	}
	return total
}

// Validate checks that t has at least two layers of positive width.
func (t Topology) Validate() error {
	if len(t) < 2 {
		return errors.Wrapf(ErrShapeMismatch, "topology %v needs an input and an output layer", []int(t))
	}
	for i, w := range t {
		if w <= 0 {
			return errors.Wrapf(ErrShapeMismatch, "layer %d of topology %v has width %d", i, []int(t), w)
		}
	}
	return nil
}

// Flatten concatenates the row-major entries of every matrix, in order.
func Flatten(weights []*mat.Dense) []float64 {
	total := 0
	for _, w := range weights {
		r, c := w.Dims()
		total += r * c
	}

	flat := make([]float64, 0, total)
	for _, w := range weights {
		r, _ := w.Dims()
		for i := 0; i < r; i++ {
			flat = append(flat, w.RawRowView(i)...)
		}
	}
	return flat
}

// Unflatten is the inverse of Flatten: matrix i takes the next
// t[i]*t[i+1] elements of flat as a t[i] x t[i+1] row-major matrix.
// The matrices own copies of the data.
func Unflatten(flat []float64, t Topology) ([]*mat.Dense, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if want := t.NumWeights(); len(flat) != want {
		return nil, errors.Wrapf(ErrShapeMismatch, "weight vector has %d elements, topology %v needs %d", len(flat), []int(t), want)
	}

	weights := make([]*mat.Dense, 0, t.Layers())
	start := 0
	for i := 0; i < t.Layers(); i++ {
		end := start + t[i]*t[i+1]
		data := make([]float64, end-start)
		copy(data, flat[start:end])
		weights = append(weights, mat.NewDense(t[i], t[i+1], data))
		start = end
	}
	return weights, nil
}

// checkWeights verifies that weights have the shapes t prescribes.
func checkWeights(weights []*mat.Dense, t Topology) error {
	if len(weights) != t.Layers() {
		return errors.Wrapf(ErrShapeMismatch, "got %d weight matrices, topology %v needs %d", len(weights), []int(t), t.Layers())
	}
	for i, w := range weights {
		r, c := w.Dims()
		if r != t[i] || c != t[i+1] {
			return errors.Wrapf(ErrShapeMismatch, "weight matrix %d is %dx%d, want %dx%d", i, r, c, t[i], t[i+1])
		}
	}
	return nil
}
