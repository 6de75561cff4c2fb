// Package opt provides the iterative optimizers that fit a flat weight vector.
//
// Every algorithm maximises: problems expose a sign (Maximize) and report
// fitness already multiplied by it, so a minimisation problem simply returns
// negated losses.
package opt

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

// ErrInvalidParams is returned when an algorithm receives unusable hyperparameters.
var ErrInvalidParams = errors.New("invalid optimizer parameters")

// Problem is the narrow contract every optimizer drives.
type Problem interface {
	// State returns a copy of the current state vector.
	State() []float64

	// SetState replaces the current state and refreshes the cached fitness.
	SetState(state []float64) error

	// Fitness returns the cached, sign-adjusted fitness of the current state.
	Fitness() float64

	// Eval returns the sign-adjusted fitness of state without changing the
	// current state.
	Eval(state []float64) (float64, error)

	// Maximize returns +1 for maximisation problems and -1 for minimisation.
	Maximize() float64

	// Update adds updates to the current state, clips the result to the
	// problem's bounds and returns it as a new candidate.
	Update(updates []float64) ([]float64, error)
}

// GradientProblem is a Problem that can derive its own descent updates.
type GradientProblem interface {
	Problem

	// Updates runs a forward and backward pass at state and returns the
	// update vector to pass to Update.
	Updates(state []float64) ([]float64, error)
}

// Config holds the budget shared by every algorithm.
type Config struct {
	// MaxAttempts is the number of consecutive non-improving steps tolerated.
	MaxAttempts int
	// MaxIters caps the total number of steps; zero or negative means no cap.
	MaxIters int
	// Rand drives every stochastic choice. A nil Rand uses a fixed seed.
	Rand *rand.Rand
	// Callbacks are notified after every iteration.
	Callbacks []Callback
}

func (c Config) validate() error {
	if c.MaxAttempts <= 0 {
		return errors.Wrapf(ErrInvalidParams, "max attempts must be positive, got %d", c.MaxAttempts)
	}
	return nil
}

func (c Config) maxIters() int {
	if c.MaxIters <= 0 {
		return math.MaxInt
	}
	return c.MaxIters
}

func (c Config) rng() *rand.Rand {
	if c.Rand == nil {
		return rand.New(rand.NewSource(1))
	}
	return c.Rand
}

// Result is the outcome of an optimizer run.
type Result struct {
	// State is the best state found.
	State []float64
	// Fitness is the sign-adjusted fitness of State.
	Fitness float64
	// Iters is the number of iterations performed.
	Iters int
	// Curve holds the current fitness after every iteration.
	Curve []float64
}

// initBound is the half-width of the range random states are drawn from.
const initBound = 1.0

// RandomState draws n values uniformly from [-1, 1].
func RandomState(rng *rand.Rand, n int) []float64 {
	state := make([]float64, n)
	for i := range state {
		state[i] = uniform(rng, initBound)
	}
	return state
}

func uniform(rng *rand.Rand, bound float64) float64 {
	return bound * (2*rng.Float64() - 1)
}

// start puts p in its initial state: init when given, a random state otherwise.
func start(p Problem, init []float64, rng *rand.Rand) error {
	if init == nil {
		init = RandomState(rng, len(p.State()))
	}
	return errors.Wrap(p.SetState(init), "setting initial state")
}

// randomNeighbor moves one uniformly chosen coordinate of the current state by
// +step or -step.
func randomNeighbor(p Problem, rng *rand.Rand, step float64) ([]float64, error) {
	n := len(p.State())
	if n == 0 {
		return nil, errors.Wrap(ErrInvalidParams, "problem has an empty state")
	}
	delta := make([]float64, n)
	if rng.Intn(2) == 0 {
		delta[rng.Intn(n)] = step
	} else {
		delta[rng.Intn(n)] = -step
	}
	return p.Update(delta)
}
