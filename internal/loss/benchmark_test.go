// Package loss provides benchmarks for loss functions.
package loss

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// randomBatch builds an r x c matrix of values in (0, 1).
func randomBatch(r, c int) *mat.Dense {
	data := make([]float64, r*c)
	for i := range data {
		data[i] = rand.Float64()
	}
	return mat.NewDense(r, c, data)
}

// BenchmarkMSEForward benchmarks MSE over a batch.
func BenchmarkMSEForward(b *testing.B) {
	yTrue, yPred := randomBatch(512, 4), randomBatch(512, 4)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = MSE{}.Forward(yTrue, yPred)
	}
}

// BenchmarkLogLossForward benchmarks categorical log-loss over a batch.
func BenchmarkLogLossForward(b *testing.B) {
	yTrue, yPred := randomBatch(512, 10), randomBatch(512, 10)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = LogLoss{}.Forward(yTrue, yPred)
	}
}

// BenchmarkLogLossDelta benchmarks the output-layer delta.
func BenchmarkLogLossDelta(b *testing.B) {
	yTrue, yPred := randomBatch(512, 10), randomBatch(512, 10)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = LogLoss{}.Delta(yTrue, yPred)
	}
}
