package opt

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// GeneticAlg evolves a population of popSize random states. Each generation
// is bred entirely from the previous one by fitness-proportional parent
// selection, single-point crossover and per-element mutation. The best child
// becomes the current state only if it improves on it, which is what the
// attempts budget counts.
func GeneticAlg(p Problem, popSize int, mutationProb float64, cfg Config) (Result, error) {
	if err := cfg.validate(); err != nil {
		return Result{}, err
	}
	if popSize <= 0 || mutationProb < 0 || mutationProb > 1 {
		return Result{}, errors.Wrapf(ErrInvalidParams, "population %d, mutation probability %v", popSize, mutationProb)
	}

	rng := cfg.rng()
	n := len(p.State())
	if n == 0 {
		return Result{}, errors.Wrap(ErrInvalidParams, "problem has an empty state")
	}

	population := make([][]float64, popSize)
	for i := range population {
		population[i] = RandomState(rng, n)
	}
	fitness, err := evalPopulation(p, population)
	if err != nil {
		return Result{}, err
	}
	if err := p.SetState(population[floats.MaxIdx(fitness)]); err != nil {
		return Result{}, err
	}

	maxIters := cfg.maxIters()
	var curve []float64
	attempts, iters := 0, 0

	for attempts < cfg.MaxAttempts && iters < maxIters {
		iters++

		weights := mateWeights(fitness)
		children := make([][]float64, popSize)
		for i := range children {
			first := population[pickParent(rng, weights)]
			second := population[pickParent(rng, weights)]
			children[i] = reproduce(rng, first, second, mutationProb)
		}

		population = children
		if fitness, err = evalPopulation(p, population); err != nil {
			return Result{}, errors.Wrapf(err, "generation %d", iters)
		}

		bestChild := floats.MaxIdx(fitness)
		if fitness[bestChild] > p.Fitness() {
			if err := p.SetState(population[bestChild]); err != nil {
				return Result{}, err
			}
			attempts = 0
		} else {
			attempts++
		}

		curve = append(curve, p.Fitness())
		notify(cfg.Callbacks, Iteration{Iter: iters, Attempts: attempts, Fitness: p.Fitness(), BestFitness: p.Fitness()})
	}

	return Result{State: p.State(), Fitness: p.Fitness(), Iters: iters, Curve: curve}, nil
}

func evalPopulation(p Problem, population [][]float64) ([]float64, error) {
	fitness := make([]float64, len(population))
	for i, member := range population {
		f, err := p.Eval(member)
		if err != nil {
			return nil, errors.Wrapf(err, "evaluating population member %d", i)
		}
		fitness[i] = f
	}
	return fitness, nil
}

// mateWeights returns cumulative selection weights proportional to each
// member's fitness above the population minimum. A flat population gets
// uniform weights.
func mateWeights(fitness []float64) []float64 {
	weights := make([]float64, len(fitness))
	lowest := floats.Min(fitness)
	floats.AddConst(-lowest, floats.AddTo(weights, weights, fitness))
	if floats.Sum(weights) == 0 {
		for i := range weights {
			weights[i] = 1
		}
	}
	return floats.CumSum(weights, weights)
}

// pickParent draws an index from cumulative weights.
func pickParent(rng *rand.Rand, cumulative []float64) int {
	target := rng.Float64() * cumulative[len(cumulative)-1]
	i := sort.SearchFloat64s(cumulative, target)
	// SearchFloat64s finds the first weight >= target; a zero-width member
	// sharing that boundary must be skipped.
	for i < len(cumulative)-1 && cumulative[i] <= target {
		i++
	}
	return i
}

// reproduce combines two parents at a random crossover point and mutates the
// child element-wise.
func reproduce(rng *rand.Rand, first, second []float64, mutationProb float64) []float64 {
	n := len(first)
	child := make([]float64, n)
	if n > 1 {
		cut := rng.Intn(n-1) + 1
		copy(child[:cut], first[:cut])
		copy(child[cut:], second[cut:])
	} else if rng.Intn(2) == 0 {
		copy(child, first)
	} else {
		copy(child, second)
	}

	for i := range child {
		if rng.Float64() < mutationProb {
			child[i] = uniform(rng, initBound)
		}
	}
	return child
}
