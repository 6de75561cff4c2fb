package opt

import "github.com/pkg/errors"

// RandomHillClimb moves to a random neighbour only when it strictly improves
// fitness. After the first run from init (or a random state when init is nil)
// it restarts `restarts` more times from random states and keeps the best.
func RandomHillClimb(p Problem, step float64, restarts int, cfg Config, init []float64) (Result, error) {
	if err := cfg.validate(); err != nil {
		return Result{}, err
	}
	if step <= 0 || restarts < 0 {
		return Result{}, errors.Wrapf(ErrInvalidParams, "step %v, restarts %d", step, restarts)
	}

	rng := cfg.rng()
	maxIters := cfg.maxIters()
	best := Result{}
	total := 0

	for run := 0; run <= restarts; run++ {
		runInit := init
		if run > 0 {
			runInit = nil
		}
		if err := start(p, runInit, rng); err != nil {
			return Result{}, err
		}

		attempts, iters := 0, 0
		for attempts < cfg.MaxAttempts && iters < maxIters {
			iters++
			total++

			next, err := randomNeighbor(p, rng, step)
			if err != nil {
				return Result{}, err
			}
			nextFitness, err := p.Eval(next)
			if err != nil {
				return Result{}, errors.Wrapf(err, "evaluating iteration %d", total)
			}

			if nextFitness > p.Fitness() {
				if err := p.SetState(next); err != nil {
					return Result{}, err
				}
				attempts = 0
			} else {
				attempts++
			}

			bestSoFar := p.Fitness()
			if best.State != nil && best.Fitness > bestSoFar {
				bestSoFar = best.Fitness
			}
			best.Curve = append(best.Curve, p.Fitness())
			notify(cfg.Callbacks, Iteration{Iter: total, Attempts: attempts, Fitness: p.Fitness(), BestFitness: bestSoFar})
		}

		if best.State == nil || p.Fitness() > best.Fitness {
			best.State = p.State()
			best.Fitness = p.Fitness()
		}
	}

	best.Iters = total
	return best, nil
}
