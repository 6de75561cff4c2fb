package net

import (
	"math"

	"github.com/FlavioCFOliveira/neuroweights/internal/opt"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// ContinuousProblem exposes a NetworkWeights evaluator to the optimizers in
// package opt. Fitness is the loss multiplied by the maximize sign, so with
// maximize false every optimizer ends up minimising the loss.
type ContinuousProblem struct {
	fitness  *NetworkWeights
	length   int
	maximize float64
	clipMax  float64

	state   []float64
	current float64
}

var _ opt.GradientProblem = (*ContinuousProblem)(nil)

// NewContinuousProblem wraps nw. Candidate states built through Update are
// clipped into [-clipMax, clipMax]. The initial state is all zeros.
func NewContinuousProblem(nw *NetworkWeights, maximize bool, clipMax float64) (*ContinuousProblem, error) {
	if clipMax <= 0 {
		return nil, errors.Errorf("clip max must be positive, got %v", clipMax)
	}

	sign := -1.0
	if maximize {
		sign = 1.0
	}
	p := &ContinuousProblem{
		fitness:  nw,
		length:   nw.Topology().NumWeights(),
		maximize: sign,
		clipMax:  clipMax,
	}
	if err := p.SetState(make([]float64, p.length)); err != nil {
		return nil, err
	}
	return p, nil
}

// Length returns the number of weights in a state.
func (p *ContinuousProblem) Length() int {
	return p.length
}

// State returns a copy of the current state.
func (p *ContinuousProblem) State() []float64 {
	return append([]float64(nil), p.state...)
}

// SetState replaces the current state and re-evaluates its fitness.
func (p *ContinuousProblem) SetState(state []float64) error {
	f, err := p.Eval(state)
	if err != nil {
		return err
	}
	p.state = append(p.state[:0:0], state...)
	p.current = f
	return nil
}

// Fitness returns the cached fitness of the current state.
func (p *ContinuousProblem) Fitness() float64 {
	return p.current
}

// Eval returns the fitness of state. The current state is untouched.
func (p *ContinuousProblem) Eval(state []float64) (float64, error) {
	l, _, err := p.fitness.Evaluate(state)
	if err != nil {
		return 0, err
	}
	return p.maximize * l, nil
}

// Maximize returns +1 or -1.
func (p *ContinuousProblem) Maximize() float64 {
	return p.maximize
}

// Update returns the current state plus updates, clipped elementwise.
func (p *ContinuousProblem) Update(updates []float64) ([]float64, error) {
	if len(updates) != p.length {
		return nil, errors.Wrapf(ErrShapeMismatch, "update has %d elements, state has %d", len(updates), p.length)
	}
	next := floats.AddTo(make([]float64, p.length), p.state, updates)
	for i, v := range next {
		next[i] = math.Max(-p.clipMax, math.Min(p.clipMax, v))
	}
	return next, nil
}

// Updates computes backpropagation updates at state. The forward and
// backward passes run together, so the updates always belong to state.
func (p *ContinuousProblem) Updates(state []float64) ([]float64, error) {
	updates, _, err := p.fitness.Gradient(state)
	return updates, err
}
