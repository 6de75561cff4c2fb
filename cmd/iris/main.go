package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/FlavioCFOliveira/neuroweights/internal/net"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Iris dataset: 3 classes (Setosa, Versicolor, Virginica)
// Each sample has 4 features (sepal length, sepal width, petal length, petal width)
func main() {
	fmt.Println("Fitting Iris classifiers (4-8-3 network) with every optimizer...")

	rng := rand.New(rand.NewSource(42))
	data := generateIrisData(rng)

	// Shuffle-free split: every class is interleaved by construction.
	train, test := data.Split(0.8)
	if err := test.Scale(train.Normalize()); err != nil {
		fmt.Printf("scaling: %v\n", err)
		return
	}

	for _, alg := range net.Algorithms() {
		cfg := net.DefaultConfig()
		cfg.HiddenNodes = []int{8}
		cfg.Activation = "tanh"
		cfg.Algorithm = alg
		cfg.MaxIters = 500
		cfg.PopSize = 50
		cfg.Seed = 42
		if alg == net.GradientDescent {
			cfg.LearningRate = 0.5
		}

		network, err := net.New(cfg)
		if err != nil {
			fmt.Printf("%s: %v\n", alg, err)
			continue
		}

		start := time.Now()
		if err := network.Fit(train.X, train.Y, nil); err != nil {
			fmt.Printf("%s: %v\n", alg, err)
			continue
		}

		testLoss, err := network.Score(test.X, test.Y)
		if err != nil {
			fmt.Printf("%s: %v\n", alg, err)
			continue
		}
		fmt.Printf("%-20s train loss %.4f, test loss %.4f, train acc %.1f%%, test acc %.1f%% (%v)\n",
			alg, network.Loss(), testLoss,
			accuracy(network, train)*100, accuracy(network, test)*100,
			time.Since(start).Round(time.Millisecond))
	}
}

func generateIrisData(rng *rand.Rand) *net.Dataset {
	// Simplified Iris data - noise around the mean values of each class
	// Class 0: Setosa (sepal length 5.0, sepal width 3.4, petal length 1.5, petal width 0.2)
	// Class 1: Versicolor (sepal length 5.9, sepal width 2.8, petal length 4.3, petal width 1.3)
	// Class 2: Virginica (sepal length 6.6, sepal width 3.0, petal length 5.6, petal width 2.0)
	means := [][]float64{
		{5.0, 3.4, 1.5, 0.2},
		{5.9, 2.8, 4.3, 1.3},
		{6.6, 3.0, 5.6, 2.0},
	}
	noise := []float64{0.2, 0.25, 0.25}

	x := mat.NewDense(90, 4, nil)
	y := mat.NewDense(90, 3, nil)
	for i := 0; i < 90; i++ {
		class := i % 3
		x.SetRow(i, addNoise(rng, means[class], noise[class]))
		y.Set(i, class, 1)
	}
	return &net.Dataset{X: x, Y: y}
}

func addNoise(rng *rand.Rand, sample []float64, noise float64) []float64 {
	result := make([]float64, len(sample))
	for i, v := range sample {
		result[i] = v + (rng.Float64()*2-1)*noise
	}
	return result
}

func accuracy(network *net.NeuralNetwork, d *net.Dataset) float64 {
	pred, err := network.Predict(d.X)
	if err != nil {
		return 0
	}
	correct := 0
	for i := 0; i < d.Rows(); i++ {
		if floats.MaxIdx(pred.RawRowView(i)) == floats.MaxIdx(d.Y.RawRowView(i)) {
			correct++
		}
	}
	return float64(correct) / float64(d.Rows())
}
