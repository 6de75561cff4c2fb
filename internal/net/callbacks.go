package net

import (
	"log"
	"os"

	"github.com/FlavioCFOliveira/neuroweights/internal/opt"
)

// lossOf converts an optimizer fitness back into a loss. NeuralNetwork always
// minimises, so the fitness is the negated loss.
func lossOf(fitness float64) float64 {
	return -fitness
}

// Logger logs training progress every Interval iterations.
type Logger struct {
	Interval int
	Out      *log.Logger
}

var _ opt.Callback = Logger{}

// NewLogger returns a Logger writing to stderr.
func NewLogger(interval int) Logger {
	return Logger{Interval: interval, Out: log.New(os.Stderr, "", log.LstdFlags)}
}

func (c Logger) OnIteration(it opt.Iteration) {
	if c.Interval <= 0 || it.Iter%c.Interval != 0 {
		return
	}
	out := c.Out
	if out == nil {
		out = log.Default()
	}
	out.Printf("Iter %d: loss = %.6f best = %.6f attempts = %d", it.Iter, lossOf(it.Fitness), lossOf(it.BestFitness), it.Attempts)
}

// History records the loss of every iteration.
type History struct {
	Losses     []float64
	BestLosses []float64
}

func (h *History) OnIteration(it opt.Iteration) {
	h.Losses = append(h.Losses, lossOf(it.Fitness))
	h.BestLosses = append(h.BestLosses, lossOf(it.BestFitness))
}
