package net

import (
	"github.com/FlavioCFOliveira/neuroweights/internal/activations"
	"github.com/FlavioCFOliveira/neuroweights/internal/loss"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// OutputKind is the activation applied to the final layer.
type OutputKind int

const (
	OutputIdentity OutputKind = iota
	OutputSigmoid
	OutputSoftmax
)

func (k OutputKind) String() string {
	switch k {
	case OutputIdentity:
		return "identity"
	case OutputSigmoid:
		return "sigmoid"
	case OutputSoftmax:
		return "softmax"
	default:
		return "unknown"
	}
}

// ParseOutputKind is the inverse of OutputKind.String.
func ParseOutputKind(s string) (OutputKind, error) {
	switch s {
	case "identity":
		return OutputIdentity, nil
	case "sigmoid":
		return OutputSigmoid, nil
	case "softmax":
		return OutputSoftmax, nil
	default:
		return 0, errors.Errorf("unknown output activation %q", s)
	}
}

// SelectOutput picks the output activation: sigmoid for single-column
// classification, softmax for multi-column classification and identity for
// regression.
func SelectOutput(isClassifier bool, labelCols int) OutputKind {
	switch {
	case !isClassifier:
		return OutputIdentity
	case labelCols == 1:
		return OutputSigmoid
	default:
		return OutputSoftmax
	}
}

// Loss returns the loss paired with k. With these pairings the output-layer
// error signal is a scaled (prediction - labels).
func (k OutputKind) Loss() loss.Loss {
	if k == OutputIdentity {
		return loss.MSE{}
	}
	return loss.LogLoss{}
}

// Apply maps output-layer pre-activations to predictions.
func (k OutputKind) Apply(z mat.Matrix) *mat.Dense {
	switch k {
	case OutputSigmoid:
		return activations.Apply(activations.Sigmoid{}, z, false)
	case OutputSoftmax:
		return activations.Softmax(z)
	default:
		return mat.DenseCopyOf(z)
	}
}
