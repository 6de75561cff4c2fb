package main

import (
	"fmt"
	"math"

	"github.com/FlavioCFOliveira/neuroweights/internal/net"
	"gonum.org/v1/gonum/mat"
)

func main() {
	fmt.Println("=== XOR Training Example ===")

	// XOR cannot be solved without a hidden layer.
	cfg := net.DefaultConfig()
	cfg.HiddenNodes = []int{4}
	cfg.Activation = "tanh"
	cfg.Algorithm = net.GradientDescent
	cfg.LearningRate = 1.0
	cfg.MaxIters = 2000
	cfg.Callbacks = append(cfg.Callbacks, net.NewLogger(250))

	fmt.Println("Network architecture: 2(+bias)-4-1")
	fmt.Println("Activation functions: Tanh (hidden), Sigmoid (output)")
	fmt.Println("Loss function: log loss")
	fmt.Printf("Optimizer: gradient descent with learning rate %v\n", cfg.LearningRate)

	network, err := net.New(cfg)
	if err != nil {
		fmt.Printf("Error creating network: %v\n", err)
		return
	}

	trainX := mat.NewDense(4, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		1, 1,
	})
	trainY := net.ColumnLabels([]float64{0, 1, 1, 0})

	if err := network.Fit(trainX, trainY, nil); err != nil {
		fmt.Printf("Error fitting network: %v\n", err)
		return
	}
	fmt.Printf("Final loss: %.6f after %d iterations\n", network.Loss(), network.Iters())

	// Test the network
	fmt.Println("\nTesting trained network:")
	pred, err := network.Predict(trainX)
	if err != nil {
		fmt.Printf("Error predicting: %v\n", err)
		return
	}
	for i := 0; i < 4; i++ {
		fmt.Printf("Input: %v, Predicted: %.4f, Target: %v\n",
			mat.Row(nil, i, trainX), pred.At(i, 0), trainY.At(i, 0))
	}

	// Save the trained network
	fmt.Println("\nSaving network to disk...")
	if err := network.Save("xor_network.bin"); err != nil {
		fmt.Printf("Error saving network: %v\n", err)
		return
	}
	fmt.Println("Network saved successfully!")

	// Load the network back
	fmt.Println("Loading network from disk...")
	loadedNetwork, err := net.Load("xor_network.bin")
	if err != nil {
		fmt.Printf("Error loading network: %v\n", err)
		return
	}
	fmt.Println("Network loaded successfully!")

	// Verify loaded network produces same predictions
	fmt.Println("\nVerifying loaded network:")
	loadedPred, err := loadedNetwork.Predict(trainX)
	if err != nil {
		fmt.Printf("Error predicting: %v\n", err)
		return
	}
	allMatch := true
	for i := 0; i < 4; i++ {
		match := "OK"
		if math.Abs(pred.At(i, 0)-loadedPred.At(i, 0)) > 1e-6 {
			match = "MISMATCH"
			allMatch = false
		}
		fmt.Printf("Input: %v, Original: %.4f, Loaded: %.4f [%s]\n",
			mat.Row(nil, i, trainX), pred.At(i, 0), loadedPred.At(i, 0), match)
	}

	if allMatch {
		fmt.Println("\nSUCCESS: All predictions match between original and loaded network!")
	} else {
		fmt.Println("\nFAILURE: Predictions differ between original and loaded network!")
	}
}
