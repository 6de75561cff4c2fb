package opt

import (
	"math"

	"github.com/pkg/errors"
)

// SimulatedAnnealing accepts improving neighbours always and worsening ones
// with probability exp(delta/T), where T follows schedule. The run ends when
// the attempts or iteration budget is spent or the temperature reaches zero.
func SimulatedAnnealing(p Problem, step float64, schedule Schedule, cfg Config, init []float64) (Result, error) {
	if err := cfg.validate(); err != nil {
		return Result{}, err
	}
	if step <= 0 || schedule == nil {
		return Result{}, errors.Wrapf(ErrInvalidParams, "step %v, schedule %v", step, schedule)
	}

	rng := cfg.rng()
	if err := start(p, init, rng); err != nil {
		return Result{}, err
	}

	maxIters := cfg.maxIters()
	res := Result{State: p.State(), Fitness: p.Fitness()}
	attempts, iters := 0, 0

	for attempts < cfg.MaxAttempts && iters < maxIters {
		temp := schedule.Evaluate(iters)
		iters++
		if temp == 0 {
			break
		}

		next, err := randomNeighbor(p, rng, step)
		if err != nil {
			return Result{}, err
		}
		nextFitness, err := p.Eval(next)
		if err != nil {
			return Result{}, errors.Wrapf(err, "evaluating iteration %d", iters)
		}

		deltaE := nextFitness - p.Fitness()
		if deltaE > 0 || rng.Float64() < math.Exp(deltaE/temp) {
			if err := p.SetState(next); err != nil {
				return Result{}, err
			}
			attempts = 0
		} else {
			attempts++
		}

		if p.Fitness() > res.Fitness {
			res.State = p.State()
			res.Fitness = p.Fitness()
		}
		res.Curve = append(res.Curve, p.Fitness())
		notify(cfg.Callbacks, Iteration{Iter: iters, Attempts: attempts, Fitness: p.Fitness(), BestFitness: res.Fitness})
	}

	res.Iters = iters
	return res, nil
}
