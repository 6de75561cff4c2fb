package net

import (
	"github.com/FlavioCFOliveira/neuroweights/internal/activations"
	"github.com/FlavioCFOliveira/neuroweights/internal/loss"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrRowMismatch is returned when features and labels disagree on the number
// of observations.
var ErrRowMismatch = errors.New("features and labels must have the same number of rows")

// ForwardCache holds everything a backward pass needs from one forward pass.
// It is produced fresh by every Evaluate and refers only to the weights it was
// computed with.
type ForwardCache struct {
	// Weights are the matrices the pass used, input layer first.
	Weights []*mat.Dense
	// Inputs[i] is the matrix fed into layer i; Inputs[0] carries the bias
	// column when bias is enabled.
	Inputs []*mat.Dense
	// PreActivations[i] is Inputs[i]·Weights[i], before any activation.
	PreActivations []*mat.Dense
	// Prediction is the output activation applied to the last pre-activation.
	Prediction *mat.Dense
}

// NetworkWeights scores flat weight vectors of a fixed topology against a
// dataset and computes backpropagation updates.
type NetworkWeights struct {
	x            *mat.Dense
	y            *mat.Dense
	topology     Topology
	activation   activations.Activation
	learningRate float64

	output OutputKind
	loss   loss.Loss
}

// NewNetworkWeights binds a dataset to a topology. x must not include the bias
// column; it is appended here when bias is set. The output activation and
// loss are chosen from isClassifier and the number of label columns.
func NewNetworkWeights(x, y mat.Matrix, topology Topology, act activations.Activation, bias, isClassifier bool, learningRate float64) (*NetworkWeights, error) {
	if act == nil {
		return nil, errors.New("hidden activation is required")
	}
	xr, xc := x.Dims()
	yr, yc := y.Dims()
	if xr != yr {
		return nil, errors.Wrapf(ErrRowMismatch, "features have %d rows, labels have %d", xr, yr)
	}
	if err := topology.Validate(); err != nil {
		return nil, err
	}

	inputs := xc
	if bias {
		inputs++
	}
	if topology[0] != inputs || topology[len(topology)-1] != yc {
		return nil, errors.Wrapf(ErrShapeMismatch, "topology %v does not fit %d inputs and %d outputs", []int(topology), inputs, yc)
	}

	features := mat.DenseCopyOf(x)
	if bias {
		features = withBias(features)
	}

	output := SelectOutput(isClassifier, yc)
	return &NetworkWeights{
		x:            features,
		y:            mat.DenseCopyOf(y),
		topology:     append(Topology(nil), topology...),
		activation:   act,
		learningRate: learningRate,
		output:       output,
		loss:         output.Loss(),
	}, nil
}

// Output returns the output activation chosen at construction.
func (nw *NetworkWeights) Output() OutputKind {
	return nw.output
}

// Topology returns the layer widths the evaluator was built for.
func (nw *NetworkWeights) Topology() Topology {
	return nw.topology
}

// Evaluate runs the dataset through the network encoded by state and returns
// the loss together with the cache of the pass.
func (nw *NetworkWeights) Evaluate(state []float64) (float64, *ForwardCache, error) {
	weights, err := Unflatten(state, nw.topology)
	if err != nil {
		return 0, nil, err
	}
	cache := forward(nw.x, weights, nw.activation, nw.output)
	return nw.loss.Forward(nw.y, cache.Prediction), cache, nil
}

// Updates backpropagates the error of cache and returns, per layer, the
// update to add to each weight matrix: -learningRate times the gradient of
// the loss. The slice is ordered input layer first.
func (nw *NetworkWeights) Updates(cache *ForwardCache) []*mat.Dense {
	layers := len(cache.Weights)
	updates := make([]*mat.Dense, layers)

	delta := nw.loss.Delta(nw.y, cache.Prediction)
	for i := layers - 1; i >= 0; i-- {
		if i < layers-1 {
			// Pull the error back through layer i+1, then through the
			// activation that produced its input.
			back := new(mat.Dense)
			back.Mul(delta, cache.Weights[i+1].T())
			back.MulElem(back, activations.Apply(nw.activation, cache.PreActivations[i], true))
			delta = back
		}

		update := new(mat.Dense)
		update.Mul(cache.Inputs[i].T(), delta)
		update.Scale(-nw.learningRate, update)
		updates[i] = update
	}
	return updates
}

// Gradient evaluates state and backpropagates in one step, returning the
// flat update vector and the loss at state.
func (nw *NetworkWeights) Gradient(state []float64) ([]float64, float64, error) {
	l, cache, err := nw.Evaluate(state)
	if err != nil {
		return nil, 0, err
	}
	updates := nw.Updates(cache)
	if err := checkWeights(updates, nw.topology); err != nil {
		return nil, 0, err
	}
	return Flatten(updates), l, nil
}

// forward runs x through weights. x must already carry the bias column if
// the network uses one.
func forward(x *mat.Dense, weights []*mat.Dense, act activations.Activation, output OutputKind) *ForwardCache {
	cache := &ForwardCache{
		Weights:        weights,
		Inputs:         make([]*mat.Dense, len(weights)),
		PreActivations: make([]*mat.Dense, len(weights)),
	}

	inputs := x
	for i, w := range weights {
		cache.Inputs[i] = inputs

		z := new(mat.Dense)
		z.Mul(inputs, w)
		cache.PreActivations[i] = z

		if i < len(weights)-1 {
			inputs = activations.Apply(act, z, false)
		} else {
			cache.Prediction = output.Apply(z)
		}
	}
	return cache
}

// withBias returns x with a trailing column of ones.
func withBias(x mat.Matrix) *mat.Dense {
	r, _ := x.Dims()
	ones := make([]float64, r)
	for i := range ones {
		ones[i] = 1
	}

	var out mat.Dense
	out.Augment(x, mat.NewVecDense(r, ones))
	return &out
}
