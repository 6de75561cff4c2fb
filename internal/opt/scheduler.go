package opt

import (
	"math"

	"github.com/pkg/errors"
)

// ErrInvalidSchedule is returned by schedule constructors for unusable parameters.
var ErrInvalidSchedule = errors.New("invalid temperature schedule")

// Schedule gives the simulated annealing temperature at iteration t.
type Schedule interface {
	Evaluate(t int) float64
}

// GeomDecay multiplies the temperature by Decay every iteration:
// T(t) = max(InitTemp * Decay^t, MinTemp).
type GeomDecay struct {
	InitTemp float64
	Decay    float64
	MinTemp  float64
}

// NewGeomDecay validates and builds a geometric schedule.
func NewGeomDecay(initTemp, decay, minTemp float64) (*GeomDecay, error) {
	if err := checkTemps(initTemp, minTemp); err != nil {
		return nil, err
	}
	if decay <= 0 || decay >= 1 {
		return nil, errors.Wrapf(ErrInvalidSchedule, "decay must be in (0, 1), got %v", decay)
	}
	return &GeomDecay{InitTemp: initTemp, Decay: decay, MinTemp: minTemp}, nil
}

// DefaultGeomDecay returns the schedule used when none is configured.
func DefaultGeomDecay() *GeomDecay {
	return &GeomDecay{InitTemp: 1.0, Decay: 0.99, MinTemp: 0.001}
}

func (s *GeomDecay) Evaluate(t int) float64 {
	return math.Max(s.InitTemp*math.Pow(s.Decay, float64(t)), s.MinTemp)
}

// ArithDecay lowers the temperature by a constant every iteration:
// T(t) = max(InitTemp - Decay*t, MinTemp).
type ArithDecay struct {
	InitTemp float64
	Decay    float64
	MinTemp  float64
}

// NewArithDecay validates and builds an arithmetic schedule.
func NewArithDecay(initTemp, decay, minTemp float64) (*ArithDecay, error) {
	if err := checkTemps(initTemp, minTemp); err != nil {
		return nil, err
	}
	if decay <= 0 {
		return nil, errors.Wrapf(ErrInvalidSchedule, "decay must be positive, got %v", decay)
	}
	return &ArithDecay{InitTemp: initTemp, Decay: decay, MinTemp: minTemp}, nil
}

func (s *ArithDecay) Evaluate(t int) float64 {
	return math.Max(s.InitTemp-s.Decay*float64(t), s.MinTemp)
}

// ExpDecay decays the temperature exponentially:
// T(t) = max(InitTemp * exp(-ExpConst*t), MinTemp).
type ExpDecay struct {
	InitTemp float64
	ExpConst float64
	MinTemp  float64
}

// NewExpDecay validates and builds an exponential schedule.
func NewExpDecay(initTemp, expConst, minTemp float64) (*ExpDecay, error) {
	if err := checkTemps(initTemp, minTemp); err != nil {
		return nil, err
	}
	if expConst <= 0 {
		return nil, errors.Wrapf(ErrInvalidSchedule, "exponential constant must be positive, got %v", expConst)
	}
	return &ExpDecay{InitTemp: initTemp, ExpConst: expConst, MinTemp: minTemp}, nil
}

func (s *ExpDecay) Evaluate(t int) float64 {
	return math.Max(s.InitTemp*math.Exp(-s.ExpConst*float64(t)), s.MinTemp)
}

// CustomSchedule wraps an arbitrary temperature function.
type CustomSchedule func(t int) float64

func (f CustomSchedule) Evaluate(t int) float64 { return f(t) }

func checkTemps(initTemp, minTemp float64) error {
	if initTemp <= 0 {
		return errors.Wrapf(ErrInvalidSchedule, "initial temperature must be positive, got %v", initTemp)
	}
	if minTemp <= 0 || minTemp >= initTemp {
		return errors.Wrapf(ErrInvalidSchedule, "minimum temperature must be in (0, %v), got %v", initTemp, minTemp)
	}
	return nil
}
