package opt

import (
	"fmt"
	"math"
)

// bowl is a minimisation problem with loss sum((x - target)^2). It satisfies
// GradientProblem; ascend flips its updates so every step gets worse.
type bowl struct {
	target  []float64
	state   []float64
	fitness float64
	lr      float64
	clip    float64
	ascend  bool
	evals   int
}

func newBowl(target []float64) *bowl {
	b := &bowl{target: target, state: make([]float64, len(target)), lr: 0.1, clip: 10}
	b.fitness = -b.loss(b.state)
	return b
}

func (b *bowl) loss(x []float64) float64 {
	var sum float64
	for i := range x {
		d := x[i] - b.target[i]
		sum += d * d
	}
	return sum
}

func (b *bowl) State() []float64 {
	return append([]float64(nil), b.state...)
}

func (b *bowl) SetState(state []float64) error {
	if len(state) != len(b.target) {
		return fmt.Errorf("state has %d elements, want %d", len(state), len(b.target))
	}
	b.state = append([]float64(nil), state...)
	b.fitness = -b.loss(b.state)
	return nil
}

func (b *bowl) Fitness() float64 { return b.fitness }

func (b *bowl) Eval(state []float64) (float64, error) {
	if len(state) != len(b.target) {
		return 0, fmt.Errorf("state has %d elements, want %d", len(state), len(b.target))
	}
	b.evals++
	return -b.loss(state), nil
}

func (b *bowl) Maximize() float64 { return -1 }

func (b *bowl) Update(updates []float64) ([]float64, error) {
	next := make([]float64, len(b.state))
	for i := range next {
		next[i] = math.Max(-b.clip, math.Min(b.clip, b.state[i]+updates[i]))
	}
	return next, nil
}

func (b *bowl) Updates(state []float64) ([]float64, error) {
	sign := -1.0
	if b.ascend {
		sign = 1.0
	}
	updates := make([]float64, len(state))
	for i := range state {
		updates[i] = sign * b.lr * 2 * (state[i] - b.target[i])
	}
	return updates, nil
}
