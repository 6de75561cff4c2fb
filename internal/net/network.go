// Package net provides the feed-forward network whose weights are fitted by
// the optimizers in package opt.
package net

import (
	"fmt"
	"io"
	"math/rand"
	"text/tabwriter"
	"time"

	"github.com/FlavioCFOliveira/neuroweights/internal/activations"
	"github.com/FlavioCFOliveira/neuroweights/internal/opt"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrUnknownAlgorithm = errors.New("algorithm must be one of: random_hill_climb, simulated_annealing, genetic_alg, gradient_descent")
	ErrInvalidConfig    = errors.New("invalid network configuration")
	ErrNotFitted        = errors.New("network has not been fitted")
)

// Algorithm names the optimizer used to fit the weights.
type Algorithm string

const (
	RandomHillClimb    Algorithm = "random_hill_climb"
	SimulatedAnnealing Algorithm = "simulated_annealing"
	GeneticAlg         Algorithm = "genetic_alg"
	GradientDescent    Algorithm = "gradient_descent"
)

// Algorithms lists the accepted algorithm names.
func Algorithms() []Algorithm {
	return []Algorithm{RandomHillClimb, SimulatedAnnealing, GeneticAlg, GradientDescent}
}

func (a Algorithm) valid() bool {
	for _, known := range Algorithms() {
		if a == known {
			return true
		}
	}
	return false
}

// Config holds the hyperparameters of a NeuralNetwork.
type Config struct {
	// HiddenNodes lists the width of every hidden layer.
	HiddenNodes []int
	// Activation is the hidden-layer activation: identity, relu, sigmoid or tanh.
	Activation string
	Algorithm  Algorithm
	MaxIters   int
	// Bias appends a constant input column.
	Bias         bool
	IsClassifier bool
	// LearningRate scales gradient descent updates; the randomized
	// algorithms use it as their step size. Gradients are taken of the mean
	// loss over observations, not the summed loss, so the step does not grow
	// with the number of rows.
	LearningRate float64
	// EarlyStopping enables the MaxAttempts budget. Without it the attempts
	// budget equals MaxIters.
	EarlyStopping bool
	MaxAttempts   int
	// ClipMax bounds every weight to [-ClipMax, ClipMax].
	ClipMax float64
	// Schedule is the simulated annealing temperature schedule.
	Schedule     opt.Schedule
	PopSize      int
	MutationProb float64
	// Restarts is the number of extra random hill climbing runs.
	Restarts  int
	Seed      int64
	Callbacks []opt.Callback
}

// DefaultConfig returns the default hyperparameters.
func DefaultConfig() Config {
	return Config{
		Activation:   "relu",
		Algorithm:    RandomHillClimb,
		MaxIters:     100,
		Bias:         true,
		IsClassifier: true,
		LearningRate: 0.1,
		MaxAttempts:  10,
		ClipMax:      1e10,
		Schedule:     opt.DefaultGeomDecay(),
		PopSize:      200,
		MutationProb: 0.1,
		Seed:         1,
	}
}

func (c Config) validate() error {
	if !c.Algorithm.valid() {
		return errors.Wrapf(ErrUnknownAlgorithm, "got %q", c.Algorithm)
	}
	for i, w := range c.HiddenNodes {
		if w <= 0 {
			return errors.Wrapf(ErrInvalidConfig, "hidden layer %d has width %d", i, w)
		}
	}
	switch {
	case c.MaxIters <= 0:
		return errors.Wrapf(ErrInvalidConfig, "max iters must be positive, got %d", c.MaxIters)
	case c.EarlyStopping && c.MaxAttempts <= 0:
		return errors.Wrapf(ErrInvalidConfig, "max attempts must be positive, got %d", c.MaxAttempts)
	case c.LearningRate <= 0:
		return errors.Wrapf(ErrInvalidConfig, "learning rate must be positive, got %v", c.LearningRate)
	case c.ClipMax <= 0:
		return errors.Wrapf(ErrInvalidConfig, "clip max must be positive, got %v", c.ClipMax)
	case c.Restarts < 0:
		return errors.Wrapf(ErrInvalidConfig, "restarts must not be negative, got %d", c.Restarts)
	case c.Algorithm == GeneticAlg && c.PopSize <= 0:
		return errors.Wrapf(ErrInvalidConfig, "population size must be positive, got %d", c.PopSize)
	case c.Algorithm == GeneticAlg && (c.MutationProb < 0 || c.MutationProb > 1):
		return errors.Wrapf(ErrInvalidConfig, "mutation probability must be in [0, 1], got %v", c.MutationProb)
	}
	return nil
}

// NeuralNetwork fits the weights of a fully connected network with one of
// the optimizers in package opt and predicts with the best weights found.
// A NeuralNetwork is not safe for concurrent use.
type NeuralNetwork struct {
	cfg         Config
	activation  activations.Activation
	maxAttempts int
	rng         *rand.Rand

	fitted   bool
	id       string
	fittedAt time.Time
	topology Topology
	weights  []float64
	loss     float64
	output   OutputKind
	curve    []float64
	iters    int
	elapsed  time.Duration
	scaling  Scaling
}

// New validates cfg and builds an unfitted network.
func New(cfg Config) (*NeuralNetwork, error) {
	act, err := activations.Parse(cfg.Activation)
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Schedule == nil {
		cfg.Schedule = opt.DefaultGeomDecay()
	}
	cfg.HiddenNodes = append([]int(nil), cfg.HiddenNodes...)

	maxAttempts := cfg.MaxIters
	if cfg.EarlyStopping {
		maxAttempts = cfg.MaxAttempts
	}

	return &NeuralNetwork{
		cfg:         cfg,
		activation:  act,
		maxAttempts: maxAttempts,
		rng:         rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// ColumnLabels turns a flat label sequence into a single-column matrix.
func ColumnLabels(y []float64) *mat.Dense {
	return mat.NewDense(len(y), 1, append([]float64(nil), y...))
}

// Fit fits the network to features x and labels y. initWeights is the
// starting weight vector; when nil a uniform random vector in [-1, 1] is
// used. The genetic algorithm ignores initWeights. On error the network keeps
// its previous fitted state.
func (n *NeuralNetwork) Fit(x, y mat.Matrix, initWeights []float64) error {
	xr, xc := x.Dims()
	yr, yc := y.Dims()
	if xr != yr {
		return errors.Wrapf(ErrRowMismatch, "features have %d rows, labels have %d", xr, yr)
	}

	inputs := xc
	if n.cfg.Bias {
		inputs++
	}
	topology := make(Topology, 0, len(n.cfg.HiddenNodes)+2)
	topology = append(topology, inputs)
	topology = append(topology, n.cfg.HiddenNodes...)
	topology = append(topology, yc)

	if initWeights != nil && len(initWeights) != topology.NumWeights() {
		return errors.Wrapf(ErrShapeMismatch, "initial weights have %d elements, topology %v needs %d",
			len(initWeights), []int(topology), topology.NumWeights())
	}

	nw, err := NewNetworkWeights(x, y, topology, n.activation, n.cfg.Bias, n.cfg.IsClassifier, n.cfg.LearningRate)
	if err != nil {
		return err
	}
	problem, err := NewContinuousProblem(nw, false, n.cfg.ClipMax)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := n.optimize(problem, initWeights)
	if err != nil {
		return errors.Wrapf(err, "fitting with %s", n.cfg.Algorithm)
	}

	curve := make([]float64, len(res.Curve))
	for i, f := range res.Curve {
		curve[i] = problem.Maximize() * f
	}

	n.fitted = true
	n.id = uuid.NewString()
	n.fittedAt = time.Now().UTC()
	n.topology = topology
	n.weights = res.State
	n.loss = problem.Maximize() * res.Fitness
	n.output = nw.Output()
	n.curve = curve
	n.iters = res.Iters
	n.elapsed = time.Since(start)
	n.scaling = Scaling{}
	return nil
}

func (n *NeuralNetwork) optimize(problem *ContinuousProblem, init []float64) (opt.Result, error) {
	cfg := opt.Config{
		MaxAttempts: n.maxAttempts,
		MaxIters:    n.cfg.MaxIters,
		Rand:        n.rng,
		Callbacks:   n.cfg.Callbacks,
	}

	if n.cfg.Algorithm == GeneticAlg {
		return opt.GeneticAlg(problem, n.cfg.PopSize, n.cfg.MutationProb, cfg)
	}

	if init == nil {
		init = opt.RandomState(n.rng, problem.Length())
	}
	switch n.cfg.Algorithm {
	case RandomHillClimb:
		return opt.RandomHillClimb(problem, n.cfg.LearningRate, n.cfg.Restarts, cfg, init)
	case SimulatedAnnealing:
		return opt.SimulatedAnnealing(problem, n.cfg.LearningRate, n.cfg.Schedule, cfg, init)
	default:
		return opt.GradientDescent(problem, cfg, init)
	}
}

// Predict runs x through the fitted network and returns the output-layer
// activations, one row per observation.
func (n *NeuralNetwork) Predict(x mat.Matrix) (*mat.Dense, error) {
	if !n.fitted {
		return nil, ErrNotFitted
	}
	weights, err := Unflatten(n.weights, n.topology)
	if err != nil {
		return nil, err
	}

	_, xc := x.Dims()
	features := mat.DenseCopyOf(x)
	if n.cfg.Bias {
		xc++
		features = withBias(features)
	}
	if xc != n.topology[0] {
		return nil, errors.Wrapf(ErrShapeMismatch, "network expects %d inputs, got %d", n.topology[0], xc)
	}

	return forward(features, weights, n.activation, n.output).Prediction, nil
}

// Score returns the loss of the fitted network on x and y, using the loss
// paired with its output activation.
func (n *NeuralNetwork) Score(x, y mat.Matrix) (float64, error) {
	pred, err := n.Predict(x)
	if err != nil {
		return 0, err
	}
	pr, pc := pred.Dims()
	yr, yc := y.Dims()
	if pr != yr {
		return 0, errors.Wrapf(ErrRowMismatch, "features have %d rows, labels have %d", pr, yr)
	}
	if pc != yc {
		return 0, errors.Wrapf(ErrShapeMismatch, "network has %d outputs, labels have %d columns", pc, yc)
	}
	return n.output.Loss().Forward(y, pred), nil
}

// Fitted reports whether Fit has succeeded at least once.
func (n *NeuralNetwork) Fitted() bool {
	return n.fitted
}

// Loss returns the training loss of the fitted weights.
func (n *NeuralNetwork) Loss() float64 {
	return n.loss
}

// Weights returns a copy of the fitted flat weight vector.
func (n *NeuralNetwork) Weights() []float64 {
	return append([]float64(nil), n.weights...)
}

// Topology returns the layer widths of the fitted network.
func (n *NeuralNetwork) Topology() Topology {
	return append(Topology(nil), n.topology...)
}

// Output returns the output activation chosen during the last fit.
func (n *NeuralNetwork) Output() OutputKind {
	return n.output
}

// Curve returns the training loss after every iteration of the last fit.
func (n *NeuralNetwork) Curve() []float64 {
	return append([]float64(nil), n.curve...)
}

// Iters returns the number of optimizer iterations of the last fit.
func (n *NeuralNetwork) Iters() int {
	return n.iters
}

// ID returns the identifier assigned by the last successful fit.
func (n *NeuralNetwork) ID() string {
	return n.id
}

// Config returns the configuration the network was built with.
func (n *NeuralNetwork) Config() Config {
	return n.cfg
}

// SetScaling records the min-max bounds the training features were
// normalized with, so they travel with the saved model. Fit clears it.
func (n *NeuralNetwork) SetScaling(s Scaling) error {
	if !n.fitted {
		return ErrNotFitted
	}
	if len(s.Min) != len(s.Max) {
		return errors.Wrapf(ErrShapeMismatch, "scaling has %d minimums and %d maximums", len(s.Min), len(s.Max))
	}
	if inputs := n.features(); s.Width() != inputs {
		return errors.Wrapf(ErrShapeMismatch, "scaling covers %d features, network expects %d", s.Width(), inputs)
	}
	n.scaling = Scaling{
		Min: append([]float64(nil), s.Min...),
		Max: append([]float64(nil), s.Max...),
	}
	return nil
}

// Scaling returns the recorded feature scaling. Its width is zero when the
// training features were used as given.
func (n *NeuralNetwork) Scaling() Scaling {
	return Scaling{
		Min: append([]float64(nil), n.scaling.Min...),
		Max: append([]float64(nil), n.scaling.Max...),
	}
}

// features returns the number of feature columns, without the bias input.
func (n *NeuralNetwork) features() int {
	if n.cfg.Bias {
		return n.topology[0] - 1
	}
	return n.topology[0]
}

// Summary writes a table of the fitted layers and their weight counts.
func (n *NeuralNetwork) Summary(w io.Writer) error {
	if !n.fitted {
		return ErrNotFitted
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Model: %s (%s)\n", n.cfg.Algorithm, n.id)
	fmt.Fprintln(tw, "Layer\tShape\tActivation\tParams")
	for i := 0; i < n.topology.Layers(); i++ {
		act := n.cfg.Activation
		if i == n.topology.Layers()-1 {
			act = n.output.String()
		}
		fmt.Fprintf(tw, "dense_%d\t(%d, %d)\t%s\t%d\n", i, n.topology[i], n.topology[i+1], act, n.topology[i]*n.topology[i+1])
	}
	fmt.Fprintf(tw, "Total params: %d\n", n.topology.NumWeights())
	fmt.Fprintf(tw, "Training loss (%s): %.6f\n", n.output.Loss().Name(), n.loss)
	return tw.Flush()
}
