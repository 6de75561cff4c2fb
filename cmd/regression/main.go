package main

import (
	"fmt"
	"math/rand"

	"github.com/FlavioCFOliveira/neuroweights/internal/net"
	"github.com/FlavioCFOliveira/neuroweights/internal/opt"
	"gonum.org/v1/gonum/mat"
)

// Regression examples: predicting continuous values with an identity output
// and mean squared error.
func main() {
	rng := rand.New(rand.NewSource(42))

	fmt.Println("=== Regression Examples ===")

	fmt.Println("Example 1: Linear function y = 0.5x + 0.3")
	x, y := generateLinearData(rng, 100, 0.5, 0.3)
	fit(x, y, nil, net.GradientDescent, 0.5)

	fmt.Println("\nExample 2: Non-linear function y = x²")
	x, y = generateQuadraticData(rng, 100)
	fit(x, y, []int{8}, net.GradientDescent, 0.5)

	fmt.Println("\nExample 3: Multi-input function z = (x + y) / 2")
	x, y = generateMultiInputData(rng, 100)
	fit(x, y, nil, net.GradientDescent, 0.5)

	fmt.Println("\nExample 4: y = x² with simulated annealing")
	x, y = generateQuadraticData(rng, 100)
	fit(x, y, []int{8}, net.SimulatedAnnealing, 0.1)
}

func fit(x, y *mat.Dense, hidden []int, alg net.Algorithm, lr float64) {
	cfg := net.DefaultConfig()
	cfg.HiddenNodes = hidden
	cfg.Activation = "tanh"
	cfg.IsClassifier = false
	cfg.Algorithm = alg
	cfg.LearningRate = lr
	cfg.MaxIters = 1000
	cfg.Seed = 42
	if alg == net.SimulatedAnnealing {
		cfg.MaxIters = 5000
		cfg.Schedule = &opt.ExpDecay{InitTemp: 1, ExpConst: 0.005, MinTemp: 0.001}
	}

	network, err := net.New(cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if err := network.Fit(x, y, nil); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Topology %v, %s: MSE %.6f after %d iterations\n",
		network.Topology(), alg, network.Loss(), network.Iters())

	pred, err := network.Predict(x)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	for i := 0; i < 5; i++ {
		fmt.Printf("  Input: %.3f, Predicted: %.4f, Target: %.4f\n",
			mat.Row(nil, i, x), pred.At(i, 0), y.At(i, 0))
	}
}

func generateLinearData(rng *rand.Rand, n int, slope, intercept float64) (*mat.Dense, *mat.Dense) {
	x := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		v := rng.Float64()
		noise := (rng.Float64() - 0.5) * 0.05
		x.Set(i, 0, v)
		y.Set(i, 0, slope*v+intercept+noise)
	}
	return x, y
}

func generateQuadraticData(rng *rand.Rand, n int) (*mat.Dense, *mat.Dense) {
	x := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		v := rng.Float64()
		noise := (rng.Float64() - 0.5) * 0.05
		x.Set(i, 0, v)
		y.Set(i, 0, v*v+noise)
	}
	return x, y
}

func generateMultiInputData(rng *rand.Rand, n int) (*mat.Dense, *mat.Dense) {
	x := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x1, x2 := rng.Float64(), rng.Float64()
		noise := (rng.Float64() - 0.5) * 0.05
		x.SetRow(i, []float64{x1, x2})
		y.Set(i, 0, (x1+x2)/2+noise)
	}
	return x, y
}
