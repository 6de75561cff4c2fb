// Package neuroweights fits the weights of feed-forward neural networks with
// gradient descent, random hill climbing, simulated annealing or a genetic
// algorithm.
package neuroweights

import (
	"github.com/FlavioCFOliveira/neuroweights/internal/activations"
	"github.com/FlavioCFOliveira/neuroweights/internal/loss"
	"github.com/FlavioCFOliveira/neuroweights/internal/model"
	"github.com/FlavioCFOliveira/neuroweights/internal/net"
	"github.com/FlavioCFOliveira/neuroweights/internal/opt"
	"github.com/FlavioCFOliveira/neuroweights/internal/storage"
	"gonum.org/v1/gonum/mat"
)

// Re-export common types and functions for easier access
type (
	Network    = net.NeuralNetwork
	Config     = net.Config
	Algorithm  = net.Algorithm
	Topology   = net.Topology
	OutputKind = net.OutputKind
	Dataset    = net.Dataset
	Scaling    = net.Scaling
	Activation = activations.Activation
	Loss       = loss.Loss
	Schedule   = opt.Schedule
	Callback   = opt.Callback
	Iteration  = opt.Iteration
	Model      = model.FittedModel
	Run        = model.RunRecord
	Store      = storage.Store
)

// Algorithms
const (
	RandomHillClimb    = net.RandomHillClimb
	SimulatedAnnealing = net.SimulatedAnnealing
	GeneticAlg         = net.GeneticAlg
	GradientDescent    = net.GradientDescent
)

// Errors
var (
	ErrUnknownActivation = activations.ErrUnknownActivation
	ErrUnknownAlgorithm  = net.ErrUnknownAlgorithm
	ErrInvalidConfig     = net.ErrInvalidConfig
	ErrNotFitted         = net.ErrNotFitted
	ErrRowMismatch       = net.ErrRowMismatch
	ErrShapeMismatch     = net.ErrShapeMismatch
)

// Model creation
func DefaultConfig() Config {
	return net.DefaultConfig()
}

func New(cfg Config) (*Network, error) {
	return net.New(cfg)
}

// ColumnLabels turns a flat label sequence into a single-column matrix.
func ColumnLabels(y []float64) *mat.Dense {
	return net.ColumnLabels(y)
}

// Weight codec
func Flatten(weights []*mat.Dense) []float64 {
	return net.Flatten(weights)
}

func Unflatten(flat []float64, t Topology) ([]*mat.Dense, error) {
	return net.Unflatten(flat, t)
}

// Schedules
func GeomDecay(initTemp, decay, minTemp float64) (Schedule, error) {
	s, err := opt.NewGeomDecay(initTemp, decay, minTemp)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func ArithDecay(initTemp, decay, minTemp float64) (Schedule, error) {
	s, err := opt.NewArithDecay(initTemp, decay, minTemp)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func ExpDecay(initTemp, expConst, minTemp float64) (Schedule, error) {
	s, err := opt.NewExpDecay(initTemp, expConst, minTemp)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func CustomSchedule(fn func(t int) float64) Schedule {
	return opt.CustomSchedule(fn)
}

// Callbacks
func Logger(interval int) Callback {
	return net.NewLogger(interval)
}

func CSVLogger(filename string, append bool) (*net.CSVLogger, error) {
	return net.NewCSVLogger(filename, append)
}

// Data
func LoadCSV(filename string, labelCols []int, hasHeader bool) (*Dataset, error) {
	return net.LoadCSV(filename, labelCols, hasHeader)
}

// Model Persistence
func Load(filename string) (*Network, error) {
	return net.Load(filename)
}

func FromModel(m Model) (*Network, error) {
	return net.FromModel(m)
}

func NewStore(kind, sqlitePath string) (Store, error) {
	return storage.NewStore(kind, sqlitePath)
}
