// Package opt provides comprehensive unit tests for optimizers.
package opt

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
)

var bowlTarget = []float64{0.5, -0.5, 0.2}

// TestDescentStateNext tests the pure transition of the descent bookkeeping.
func TestDescentStateNext(t *testing.T) {
	st := newDescentState([]float64{0}, -5)

	// Improving step: attempts reset, best updated.
	st = st.next(-5, -3, []float64{1})
	if st.iters != 1 || st.attempts != 0 || st.bestFitness != -3 || st.bestState[0] != 1 {
		t.Fatalf("after improving step: %+v", st)
	}

	// Worse step: attempts grow, best kept.
	st = st.next(-3, -4, []float64{2})
	if st.iters != 2 || st.attempts != 1 || st.bestFitness != -3 || st.bestState[0] != 1 {
		t.Fatalf("after worse step: %+v", st)
	}

	// Improves on the previous step but not on the best: attempts reset only.
	st = st.next(-4, -3.5, []float64{3})
	if st.attempts != 0 || st.bestFitness != -3 || st.bestState[0] != 1 {
		t.Fatalf("after partial recovery: %+v", st)
	}

	// Equal fitness is not an improvement.
	st = st.next(-3.5, -3.5, []float64{4})
	if st.attempts != 1 {
		t.Fatalf("equal fitness should count as an attempt: %+v", st)
	}

	if !st.running(2, 10) {
		t.Error("should keep running with attempts below budget")
	}
	if st.running(1, 10) {
		t.Error("should stop once attempts reach the budget")
	}
	if st.running(2, st.iters) {
		t.Error("should stop once iterations reach the budget")
	}
}

// TestGradientDescentConverges tests descent on a convex bowl.
func TestGradientDescentConverges(t *testing.T) {
	p := newBowl(bowlTarget)

	res, err := GradientDescent(p, Config{MaxAttempts: 10, MaxIters: 200}, []float64{0, 0, 0})
	if err != nil {
		t.Fatalf("GradientDescent: %v", err)
	}
	if loss := -res.Fitness; loss > 1e-8 {
		t.Errorf("best loss = %v, want ~0", loss)
	}
	for i, v := range res.State {
		if math.Abs(v-bowlTarget[i]) > 1e-4 {
			t.Errorf("state[%d] = %v, want %v", i, v, bowlTarget[i])
		}
	}
	if len(res.Curve) != res.Iters {
		t.Errorf("curve has %d points for %d iterations", len(res.Curve), res.Iters)
	}
}

// TestGradientDescentBestFitnessMonotonic tests that the best fitness never drops.
func TestGradientDescentBestFitnessMonotonic(t *testing.T) {
	p := newBowl(bowlTarget)
	p.lr = 0.95 // overshoots the minimum on every step

	var bests []float64
	cb := CallbackFunc(func(it Iteration) { bests = append(bests, it.BestFitness) })

	res, err := GradientDescent(p, Config{MaxAttempts: 50, MaxIters: 60, Callbacks: []Callback{cb}}, []float64{1, 1, 1})
	if err != nil {
		t.Fatalf("GradientDescent: %v", err)
	}
	if len(bests) != res.Iters {
		t.Fatalf("callback called %d times for %d iterations", len(bests), res.Iters)
	}
	for i := 1; i < len(bests); i++ {
		if bests[i] < bests[i-1] {
			t.Fatalf("best fitness dropped at step %d: %v -> %v", i, bests[i-1], bests[i])
		}
	}
	if res.Fitness != bests[len(bests)-1] {
		t.Errorf("result fitness %v, last best %v", res.Fitness, bests[len(bests)-1])
	}
	for _, f := range res.Curve {
		if f > res.Fitness {
			t.Errorf("curve point %v beats reported best %v", f, res.Fitness)
		}
	}
}

// TestGradientDescentEarlyStop tests that a single non-improving step halts a
// run with MaxAttempts = 1, regardless of MaxIters.
func TestGradientDescentEarlyStop(t *testing.T) {
	p := newBowl(bowlTarget)
	p.ascend = true
	init := []float64{0, 0, 0}

	res, err := GradientDescent(p, Config{MaxAttempts: 1, MaxIters: 1000}, init)
	if err != nil {
		t.Fatalf("GradientDescent: %v", err)
	}
	if res.Iters != 1 {
		t.Errorf("iterations = %d, want 1", res.Iters)
	}
	for i := range init {
		if res.State[i] != init[i] {
			t.Errorf("best state should remain the initial state, got %v", res.State)
			break
		}
	}
	if want := -p.loss(init); res.Fitness != want {
		t.Errorf("best fitness = %v, want %v", res.Fitness, want)
	}
}

// TestGradientDescentIterationCap tests that MaxIters bounds the run.
func TestGradientDescentIterationCap(t *testing.T) {
	p := newBowl(bowlTarget)
	p.lr = 0.001

	res, err := GradientDescent(p, Config{MaxAttempts: 100, MaxIters: 7}, nil)
	if err != nil {
		t.Fatalf("GradientDescent: %v", err)
	}
	if res.Iters != 7 {
		t.Errorf("iterations = %d, want 7", res.Iters)
	}
}

// TestGradientDescentRandomStart tests the nil init path is seeded by Config.Rand.
func TestGradientDescentRandomStart(t *testing.T) {
	run := func() []float64 {
		p := newBowl(bowlTarget)
		p.ascend = true
		res, err := GradientDescent(p, Config{MaxAttempts: 1, Rand: rand.New(rand.NewSource(7))}, nil)
		if err != nil {
			t.Fatalf("GradientDescent: %v", err)
		}
		return res.State
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed gave different starts: %v vs %v", a, b)
		}
		if a[i] < -1 || a[i] > 1 {
			t.Errorf("random start %v outside [-1, 1]", a[i])
		}
	}
}

// TestInvalidConfig tests budget validation across algorithms.
func TestInvalidConfig(t *testing.T) {
	cfg := Config{MaxAttempts: 0, MaxIters: 10}
	checks := map[string]func() error{
		"gradient_descent": func() error {
			_, err := GradientDescent(newBowl(bowlTarget), cfg, nil)
			return err
		},
		"random_hill_climb": func() error {
			_, err := RandomHillClimb(newBowl(bowlTarget), 0.1, 0, cfg, nil)
			return err
		},
		"simulated_annealing": func() error {
			_, err := SimulatedAnnealing(newBowl(bowlTarget), 0.1, DefaultGeomDecay(), cfg, nil)
			return err
		},
		"genetic_alg": func() error {
			_, err := GeneticAlg(newBowl(bowlTarget), 10, 0.1, cfg)
			return err
		},
	}
	for name, run := range checks {
		if err := run(); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("%s: error = %v, want ErrInvalidParams", name, err)
		}
	}
}

// TestRandomHillClimb tests that hill climbing only accepts improvements.
func TestRandomHillClimb(t *testing.T) {
	p := newBowl(bowlTarget)
	cfg := Config{MaxAttempts: 100, MaxIters: 5000, Rand: rand.New(rand.NewSource(3))}

	res, err := RandomHillClimb(p, 0.1, 0, cfg, []float64{0, 0, 0})
	if err != nil {
		t.Fatalf("RandomHillClimb: %v", err)
	}
	for i := 1; i < len(res.Curve); i++ {
		if res.Curve[i] < res.Curve[i-1] {
			t.Fatalf("hill climbing accepted a worse state at step %d", i)
		}
	}
	if loss := -res.Fitness; loss > 1e-6 {
		t.Errorf("best loss = %v, want ~0", loss)
	}
}

// TestRandomHillClimbRestarts tests that restarts add runs and keep the best.
func TestRandomHillClimbRestarts(t *testing.T) {
	p := newBowl(bowlTarget)
	cfg := Config{MaxAttempts: 5, MaxIters: 20, Rand: rand.New(rand.NewSource(11))}

	res, err := RandomHillClimb(p, 0.05, 3, cfg, nil)
	if err != nil {
		t.Fatalf("RandomHillClimb: %v", err)
	}
	if res.Iters != len(res.Curve) {
		t.Errorf("iterations = %d, curve = %d", res.Iters, len(res.Curve))
	}
	if res.Iters < 4*5 {
		t.Errorf("four runs should take at least %d iterations, got %d", 4*5, res.Iters)
	}
	got, _ := p.Eval(res.State)
	if got != res.Fitness {
		t.Errorf("reported fitness %v does not match state fitness %v", res.Fitness, got)
	}
	for _, f := range res.Curve {
		if f > res.Fitness {
			t.Errorf("curve point %v beats reported best %v", f, res.Fitness)
		}
	}
}

// TestSimulatedAnnealing tests annealing on the bowl.
func TestSimulatedAnnealing(t *testing.T) {
	p := newBowl(bowlTarget)
	cfg := Config{MaxAttempts: 100, MaxIters: 5000, Rand: rand.New(rand.NewSource(5))}

	res, err := SimulatedAnnealing(p, 0.1, DefaultGeomDecay(), cfg, []float64{0, 0, 0})
	if err != nil {
		t.Fatalf("SimulatedAnnealing: %v", err)
	}
	if loss := -res.Fitness; loss > 0.05 {
		t.Errorf("best loss = %v, want < 0.05", loss)
	}
	got, _ := p.Eval(res.State)
	if got != res.Fitness {
		t.Errorf("reported fitness %v does not match state fitness %v", res.Fitness, got)
	}
}

// TestSimulatedAnnealingZeroTemperature tests the frozen-schedule stop.
func TestSimulatedAnnealingZeroTemperature(t *testing.T) {
	p := newBowl(bowlTarget)
	frozen := CustomSchedule(func(int) float64 { return 0 })

	res, err := SimulatedAnnealing(p, 0.1, frozen, Config{MaxAttempts: 10, MaxIters: 100}, []float64{0, 0, 0})
	if err != nil {
		t.Fatalf("SimulatedAnnealing: %v", err)
	}
	if res.Iters != 1 || len(res.Curve) != 0 {
		t.Errorf("frozen schedule: iters = %d, curve = %d; want 1, 0", res.Iters, len(res.Curve))
	}
}

// TestGeneticAlg tests that the genetic algorithm never loses its best state.
func TestGeneticAlg(t *testing.T) {
	p := newBowl(bowlTarget)
	cfg := Config{MaxAttempts: 10, MaxIters: 100, Rand: rand.New(rand.NewSource(9))}

	res, err := GeneticAlg(p, 100, 0.1, cfg)
	if err != nil {
		t.Fatalf("GeneticAlg: %v", err)
	}
	for i := 1; i < len(res.Curve); i++ {
		if res.Curve[i] < res.Curve[i-1] {
			t.Fatalf("current fitness dropped at generation %d", i)
		}
	}
	if loss := -res.Fitness; loss >= p.loss([]float64{0, 0, 0}) {
		t.Errorf("best loss %v no better than the origin", loss)
	}
	got, _ := p.Eval(res.State)
	if got != res.Fitness {
		t.Errorf("reported fitness %v does not match state fitness %v", res.Fitness, got)
	}
}

// TestGeneticAlgInvalidParams tests hyperparameter validation.
func TestGeneticAlgInvalidParams(t *testing.T) {
	cfg := Config{MaxAttempts: 5}
	if _, err := GeneticAlg(newBowl(bowlTarget), 0, 0.1, cfg); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("zero population: %v", err)
	}
	if _, err := GeneticAlg(newBowl(bowlTarget), 10, 1.5, cfg); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("mutation probability above one: %v", err)
	}
}

// TestPickParentSkipsWorst tests that the minimum-fitness member has no weight.
func TestPickParentSkipsWorst(t *testing.T) {
	weights := mateWeights([]float64{-3, -1, -2})
	rng := rand.New(rand.NewSource(1))

	counts := make([]int, 3)
	for i := 0; i < 3000; i++ {
		counts[pickParent(rng, weights)]++
	}
	if counts[0] != 0 {
		t.Errorf("worst member picked %d times", counts[0])
	}
	if counts[1] <= counts[2] {
		t.Errorf("fitter member should be picked more often: %v", counts)
	}
}

// TestMateWeightsFlat tests the uniform fallback for equal fitness.
func TestMateWeightsFlat(t *testing.T) {
	weights := mateWeights([]float64{-1, -1, -1, -1})
	want := []float64{1, 2, 3, 4}
	for i := range want {
		if weights[i] != want[i] {
			t.Fatalf("cumulative weights = %v, want %v", weights, want)
		}
	}
}

// TestReproduceCrossover tests that children without mutation mix parents.
func TestReproduceCrossover(t *testing.T) {
	first := []float64{1, 1, 1, 1, 1}
	second := []float64{2, 2, 2, 2, 2}
	rng := rand.New(rand.NewSource(2))

	for i := 0; i < 50; i++ {
		child := reproduce(rng, first, second, 0)
		if child[0] != 1 || child[len(child)-1] != 2 {
			t.Fatalf("child %v should start with first and end with second parent", child)
		}
		for j := 1; j < len(child); j++ {
			if child[j] < child[j-1] {
				t.Fatalf("child %v crosses over more than once", child)
			}
		}
	}
}
