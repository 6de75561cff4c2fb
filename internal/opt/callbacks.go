package opt

// Iteration describes the optimizer state after one step.
type Iteration struct {
	Iter        int
	Attempts    int
	Fitness     float64
	BestFitness float64
}

// Callback is notified after every optimizer iteration.
type Callback interface {
	OnIteration(it Iteration)
}

// CallbackFunc adapts a plain function to Callback.
type CallbackFunc func(it Iteration)

func (f CallbackFunc) OnIteration(it Iteration) { f(it) }

func notify(callbacks []Callback, it Iteration) {
	for _, c := range callbacks {
		c.OnIteration(it)
	}
}
