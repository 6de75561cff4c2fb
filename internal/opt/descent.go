package opt

import "github.com/pkg/errors"

// descentState is the bookkeeping of a gradient descent run.
type descentState struct {
	attempts    int
	iters       int
	bestState   []float64
	bestFitness float64
}

func newDescentState(state []float64, fitness float64) descentState {
	return descentState{bestState: state, bestFitness: fitness}
}

// running reports whether another step is allowed.
func (s descentState) running(maxAttempts, maxIters int) bool {
	return s.attempts < maxAttempts && s.iters < maxIters
}

// next returns the state after stepping from a state of fitness current to
// nextState of fitness nextFitness. The attempts counter follows the step
// itself; the best state only ever improves.
func (s descentState) next(current, nextFitness float64, nextState []float64) descentState {
	s.iters++
	if nextFitness > current {
		s.attempts = 0
	} else {
		s.attempts++
	}
	if nextFitness > s.bestFitness {
		s.bestFitness = nextFitness
		s.bestState = nextState
	}
	return s
}

// GradientDescent follows the problem's own updates. Every step is accepted,
// improving or not, until MaxAttempts consecutive steps fail to improve on
// their predecessor or MaxIters is reached. The best state seen is returned.
func GradientDescent(p GradientProblem, cfg Config, init []float64) (Result, error) {
	if err := cfg.validate(); err != nil {
		return Result{}, err
	}
	if err := start(p, init, cfg.rng()); err != nil {
		return Result{}, err
	}

	maxIters := cfg.maxIters()
	st := newDescentState(p.State(), p.Fitness())
	var curve []float64

	for st.running(cfg.MaxAttempts, maxIters) {
		updates, err := p.Updates(p.State())
		if err != nil {
			return Result{}, errors.Wrapf(err, "computing updates at iteration %d", st.iters+1)
		}
		nextState, err := p.Update(updates)
		if err != nil {
			return Result{}, errors.Wrapf(err, "applying updates at iteration %d", st.iters+1)
		}
		nextFitness, err := p.Eval(nextState)
		if err != nil {
			return Result{}, errors.Wrapf(err, "evaluating iteration %d", st.iters+1)
		}

		st = st.next(p.Fitness(), nextFitness, nextState)
		if err := p.SetState(nextState); err != nil {
			return Result{}, err
		}

		curve = append(curve, p.Fitness())
		notify(cfg.Callbacks, Iteration{
			Iter:        st.iters,
			Attempts:    st.attempts,
			Fitness:     p.Fitness(),
			BestFitness: st.bestFitness,
		})
	}

	return Result{
		State:   st.bestState,
		Fitness: st.bestFitness,
		Iters:   st.iters,
		Curve:   curve,
	}, nil
}
