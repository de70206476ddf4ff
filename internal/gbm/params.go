package gbm

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidParameter = errors.New("gbm: invalid parameter")
	ErrNumericOverflow  = errors.New("gbm: numeric overflow")
)

// Params is the full input of one simulation.
//
//	S0    initial price, > 0
//	T     horizon in years, > 0
//	N     number of time steps, >= 1
//	M     number of independent paths, >= 1
//	Mu    drift, any finite value
//	Sigma volatility, >= 0
type Params struct {
	S0    float64
	T     float64
	N     int
	M     int
	Mu    float64
	Sigma float64
}

func invalid(field string, v any, want string) error {
	return fmt.Errorf("%w: %s=%v, want %s", ErrInvalidParameter, field, v, want)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (p Params) Validate() error {
	switch {
	case !finite(p.S0) || p.S0 <= 0:
		return invalid("S0", p.S0, "> 0")
	case !finite(p.T) || p.T <= 0:
		return invalid("T", p.T, "> 0")
	case p.N <= 0:
		return invalid("n", p.N, ">= 1")
	case p.M <= 0:
		return invalid("M", p.M, ">= 1")
	case !finite(p.Mu):
		return invalid("mu", p.Mu, "finite")
	case !finite(p.Sigma) || p.Sigma < 0:
		return invalid("sigma", p.Sigma, ">= 0")
	}
	return nil
}

// Dt is the length of one time step.
func (p Params) Dt() float64 {
	return p.T / float64(p.N)
}
