// Package activations provides the elementwise activation functions used by
// hidden and output layers, applied to whole gonum matrices.
package activations

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrUnknownActivation is returned by Parse for names outside the supported set.
var ErrUnknownActivation = errors.New("activation must be one of: identity, relu, sigmoid, tanh")

// Activation is an activation function with derivative.
type Activation interface {
	// Name returns the registry name of the activation.
	Name() string

	// Activate computes f(x)
	Activate(x float64) float64

	// Derivative computes f'(x)
	Derivative(x float64) float64
}

// Identity activation function.
type Identity struct{}

func (Identity) Name() string { return "identity" }

// Activate returns x unchanged
func (Identity) Activate(x float64) float64 { return x }

// Derivative is always 1
func (Identity) Derivative(float64) float64 { return 1 }

// ReLU activation function.
type ReLU struct{}

func (ReLU) Name() string { return "relu" }

// Activate computes max(0, x)
func (ReLU) Activate(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

// Derivative returns 1 if x > 0, else 0
func (ReLU) Derivative(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

// Sigmoid activation function.
type Sigmoid struct{}

func (Sigmoid) Name() string { return "sigmoid" }

// sigmoid is split on the sign of x so exp never overflows.
func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// Activate computes sigmoid(x)
func (Sigmoid) Activate(x float64) float64 {
	return sigmoid(x)
}

// Derivative computes sigmoid(x) * (1 - sigmoid(x))
func (Sigmoid) Derivative(x float64) float64 {
	sigma := sigmoid(x)
	return sigma * (1 - sigma)
}

// Tanh activation function.
type Tanh struct{}

func (Tanh) Name() string { return "tanh" }

// Activate computes tanh(x)
func (Tanh) Activate(x float64) float64 {
	return math.Tanh(x)
}

// Derivative computes 1 - tanh(x)^2
func (Tanh) Derivative(x float64) float64 {
	tanhX := math.Tanh(x)
	return 1 - tanhX*tanhX
}

var registry = map[string]Activation{
	"identity": Identity{},
	"relu":     ReLU{},
	"sigmoid":  Sigmoid{},
	"tanh":     Tanh{},
}

// Names lists the hidden-layer activations accepted by Parse.
func Names() []string {
	return []string{"identity", "relu", "sigmoid", "tanh"}
}

// Parse resolves a hidden-layer activation by name.
func Parse(name string) (Activation, error) {
	act, ok := registry[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownActivation, "got %q", name)
	}
	return act, nil
}

// Apply maps m elementwise through act, or through its derivative when
// deriv is set. The result is a new matrix; m is not modified.
func Apply(act Activation, m mat.Matrix, deriv bool) *mat.Dense {
	fn := act.Activate
	if deriv {
		fn = act.Derivative
	}
	r, c := m.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, _ int, v float64) float64 { return fn(v) }, m)
	return out
}

// Softmax normalises every row of m into a probability distribution.
// The row maximum is subtracted before exponentiation for stability.
func Softmax(m mat.Matrix) *mat.Dense {
	out := mat.DenseCopyOf(m)
	r, _ := out.Dims()
	for i := 0; i < r; i++ {
		softmaxRow(out.RawRowView(i))
	}
	return out
}

func softmaxRow(x []float64) {
	maxVal := x[0]
	for i := 1; i < len(x); i++ {
		if x[i] > maxVal {
			maxVal = x[i]
		}
	}

	sum := 0.0
	for i := range x {
		x[i] = math.Exp(x[i] - maxVal)
		sum += x[i]
	}

	for i := range x {
		x[i] /= sum
	}
}
