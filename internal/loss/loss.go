// Package loss provides the loss functions scored by the network evaluator.
//
// Losses work on whole batches: rows are observations and columns are output
// dimensions. Besides the scalar value every loss reports the error signal at
// the output layer, i.e. the derivative of the loss with respect to the
// output-layer pre-activation under the loss's canonical output activation.
package loss

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Loss is a batch loss function with its output-layer delta.
type Loss interface {
	// Name returns a short identifier shown in model summaries.
	Name() string

	// Forward computes the loss between true and predicted values.
	Forward(yTrue, yPred mat.Matrix) float64

	// Delta computes dLoss/dZ for the output pre-activation Z, assuming the
	// prediction was produced by the loss's canonical output activation.
	Delta(yTrue, yPred mat.Matrix) *mat.Dense
}

// clipEps bounds probabilities away from 0 and 1 before taking logs.
const clipEps = 1e-15

func checkDims(name string, yTrue, yPred mat.Matrix) (int, int) {
	r, c := yTrue.Dims()
	pr, pc := yPred.Dims()
	if r != pr || c != pc {
		panic(fmt.Sprintf("%s: prediction is %dx%d but target is %dx%d", name, pr, pc, r, c))
	}
	return r, c
}

// scaledDiff returns scale * (yPred - yTrue).
func scaledDiff(yTrue, yPred mat.Matrix, scale float64) *mat.Dense {
	r, c := yTrue.Dims()
	delta := mat.NewDense(r, c, nil)
	delta.Sub(yPred, yTrue)
	delta.Scale(scale, delta)
	return delta
}

// LogLoss is the classification loss. A single label column is scored as
// binary log-loss against sigmoid outputs; several columns are scored as
// categorical cross-entropy against softmax outputs.
type LogLoss struct{}

func (LogLoss) Name() string { return "log_loss" }

// Forward computes the mean negative log-likelihood over observations.
func (LogLoss) Forward(yTrue, yPred mat.Matrix) float64 {
	n, k := checkDims("LogLoss", yTrue, yPred)

	var sum float64
	for i := 0; i < n; i++ {
		if k == 1 {
			p := clip(yPred.At(i, 0))
			y := yTrue.At(i, 0)
			sum -= y*math.Log(p) + (1-y)*math.Log(1-p)
			continue
		}
		for j := 0; j < k; j++ {
			sum -= yTrue.At(i, j) * math.Log(clip(yPred.At(i, j)))
		}
	}
	return sum / float64(n)
}

// Delta returns (yPred - yTrue) / n. Both sigmoid/binary and softmax/categorical
// pairings cancel the activation derivative down to this form.
func (LogLoss) Delta(yTrue, yPred mat.Matrix) *mat.Dense {
	n, _ := checkDims("LogLoss", yTrue, yPred)
	return scaledDiff(yTrue, yPred, 1/float64(n))
}

func clip(p float64) float64 {
	return math.Min(math.Max(p, clipEps), 1-clipEps)
}

// MSE (Mean Squared Error) loss, averaged over every element.
type MSE struct{}

func (MSE) Name() string { return "mse" }

// Forward computes mean squared error: (1/(n*k)) * sum((y_pred - y_true)^2)
func (MSE) Forward(yTrue, yPred mat.Matrix) float64 {
	n, k := checkDims("MSE", yTrue, yPred)

	var sum float64
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			diff := yPred.At(i, j) - yTrue.At(i, j)
			sum += diff * diff
		}
	}
	return sum / float64(n*k)
}

// Delta computes (2/(n*k)) * (y_pred - y_true), valid for identity outputs.
func (MSE) Delta(yTrue, yPred mat.Matrix) *mat.Dense {
	n, k := checkDims("MSE", yTrue, yPred)
	return scaledDiff(yTrue, yPred, 2/float64(n*k))
}
