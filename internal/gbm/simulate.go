package gbm

import (
	"fmt"
	"math"
	"math/rand"
)

// Simulate draws p.M independent GBM paths of p.N steps over horizon p.T.
//
// Each step uses the exact lognormal solution of the SDE
//
//	log S(t+dt) = log S(t) + (mu - sigma²/2) dt + sigma sqrt(dt) Z
//
// so every S_t is lognormal regardless of step size. Normals are drawn from
// rng in step-major, path-minor order; with Sigma == 0 rng is not touched.
//
// Values that leave the float64 range (exp overflow to +Inf or underflow to
// 0) are reported as ErrNumericOverflow rather than saturated. Keep
// |log S0| + |mu - sigma²/2|·T + 8·sigma·sqrt(T) below ~700 to stay clear.
func Simulate(p Params, rng *rand.Rand) (*Paths, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if rng == nil && p.Sigma != 0 {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidParameter)
	}

	dt := p.Dt()
	drift := (p.Mu - 0.5*p.Sigma*p.Sigma) * dt
	vol := p.Sigma * math.Sqrt(dt)

	out := newPaths(p.N+1, p.M)
	for j := 0; j < p.M; j++ {
		out.data[j] = p.S0
	}

	cum := make([]float64, p.M)
	for t := 1; t <= p.N; t++ {
		row := out.data[t*p.M : (t+1)*p.M]
		for j := range row {
			inc := drift
			if vol != 0 {
				inc += vol * rng.NormFloat64()
			}
			cum[j] += inc

			v := p.S0 * math.Exp(cum[j])
			if math.IsInf(v, 0) || math.IsNaN(v) || v == 0 {
				return nil, fmt.Errorf("%w: step %d path %d: log-return %g", ErrNumericOverflow, t, j, cum[j])
			}
			row[j] = v
		}
	}
	return out, nil
}

// SimulateSeed runs Simulate with a fresh generator seeded by seed.
// Equal seeds and params give bit-identical paths.
func SimulateSeed(p Params, seed int64) (*Paths, error) {
	return Simulate(p, rand.New(rand.NewSource(seed)))
}
