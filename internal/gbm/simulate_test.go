package gbm_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gbmsynth/internal/gbm"
)

func base() gbm.Params {
	return gbm.Params{S0: 100, T: 1, N: 252, M: 8, Mu: 0.1, Sigma: 0.2}
}

func TestSimulateShapeAndInitialRow(t *testing.T) {
	for _, tc := range []struct{ n, m int }{{1, 1}, {252, 1}, {10, 1000}, {1000, 3}} {
		p := base()
		p.N, p.M = tc.n, tc.m

		paths, err := gbm.SimulateSeed(p, 7)
		require.NoError(t, err)
		require.Equal(t, tc.n+1, paths.Rows())
		require.Equal(t, tc.m, paths.Cols())

		for j := 0; j < tc.m; j++ {
			assert.Equal(t, 100.0, paths.At(0, j))
		}
	}
}

func TestSimulatePositive(t *testing.T) {
	p := gbm.Params{S0: 0.01, T: 5, N: 500, M: 50, Mu: -0.4, Sigma: 1.5}
	paths, err := gbm.SimulateSeed(p, 11)
	require.NoError(t, err)

	for t0 := 0; t0 < paths.Rows(); t0++ {
		for _, v := range paths.Row(t0) {
			require.Greater(t, v, 0.0)
			require.False(t, math.IsInf(v, 0))
		}
	}
}

func TestSimulateSameSeedIsBitIdentical(t *testing.T) {
	a, err := gbm.SimulateSeed(base(), 42)
	require.NoError(t, err)
	b, err := gbm.SimulateSeed(base(), 42)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := gbm.SimulateSeed(base(), 43)
	require.NoError(t, err)
	assert.NotEqual(t, a.Terminal(), c.Terminal())
}

func TestSimulateZeroVolatility(t *testing.T) {
	p := gbm.Params{S0: 100, T: 2, N: 1000, M: 3, Mu: 0.35, Sigma: 0}
	paths, err := gbm.Simulate(p, nil)
	require.NoError(t, err)

	dt := p.Dt()
	for k := 0; k <= p.N; k++ {
		want := p.S0 * math.Exp(p.Mu*float64(k)*dt)
		for _, v := range paths.Row(k) {
			assert.InEpsilon(t, want, v, 1e-10, "step %d", k)
		}
	}
}

func TestSimulateZeroVolatilityLeavesSourceUntouched(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	p := base()
	p.Sigma = 0
	_, err := gbm.Simulate(p, rng)
	require.NoError(t, err)

	fresh := rand.New(rand.NewSource(3))
	assert.Equal(t, fresh.Int63(), rng.Int63())
}

func TestSimulateFlatScenario(t *testing.T) {
	p := gbm.Params{S0: 100, T: 1, N: 252, M: 1, Mu: 0, Sigma: 0}
	paths, err := gbm.SimulateSeed(p, 0)
	require.NoError(t, err)

	path := paths.Path(0)
	require.Len(t, path, 253)
	for _, v := range path {
		require.Equal(t, 100.0, v)
	}
}

func TestSimulateSingleStepScenario(t *testing.T) {
	p := gbm.Params{S0: 100, T: 1, N: 1, M: 1, Mu: 0.1, Sigma: 0}
	paths, err := gbm.SimulateSeed(p, 0)
	require.NoError(t, err)

	path := paths.Path(0)
	require.Len(t, path, 2)
	assert.Equal(t, 100.0, path[0])
	assert.InDelta(t, 100*math.Exp(0.1), path[1], 1e-12)
	assert.InDelta(t, 110.517, path[1], 1e-3)
}

func TestSimulateMeanLogReturn(t *testing.T) {
	p := gbm.Params{S0: 100, T: 1, N: 12, M: 10000, Mu: 0.1, Sigma: 0.2}
	paths, err := gbm.SimulateSeed(p, 2024)
	require.NoError(t, err)

	s := gbm.Summarize(paths)
	stderr := p.Sigma * math.Sqrt(p.T) / math.Sqrt(float64(p.M))
	assert.InDelta(t, p.ExpectedLogReturn(), s.MeanLogRet, 5*stderr)
	assert.InDelta(t, p.Sigma*math.Sqrt(p.T), s.StdLogRet, 0.01)
}

func TestSimulateInvalidParameters(t *testing.T) {
	cases := map[string]func(*gbm.Params){
		"zero S0":        func(p *gbm.Params) { p.S0 = 0 },
		"negative S0":    func(p *gbm.Params) { p.S0 = -1 },
		"zero T":         func(p *gbm.Params) { p.T = 0 },
		"zero n":         func(p *gbm.Params) { p.N = 0 },
		"negative n":     func(p *gbm.Params) { p.N = -5 },
		"zero M":         func(p *gbm.Params) { p.M = 0 },
		"negative sigma": func(p *gbm.Params) { p.Sigma = -0.1 },
		"NaN mu":         func(p *gbm.Params) { p.Mu = math.NaN() },
		"Inf S0":         func(p *gbm.Params) { p.S0 = math.Inf(1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := base()
			mutate(&p)
			_, err := gbm.SimulateSeed(p, 1)
			require.ErrorIs(t, err, gbm.ErrInvalidParameter)
		})
	}

	_, err := gbm.Simulate(base(), nil)
	require.ErrorIs(t, err, gbm.ErrInvalidParameter)
}

func TestSimulateOverflow(t *testing.T) {
	up := gbm.Params{S0: 1e300, T: 1, N: 1, M: 1, Mu: 1000}
	_, err := gbm.SimulateSeed(up, 1)
	require.ErrorIs(t, err, gbm.ErrNumericOverflow)

	down := gbm.Params{S0: 1, T: 1, N: 1, M: 1, Mu: -1000}
	_, err = gbm.SimulateSeed(down, 1)
	require.ErrorIs(t, err, gbm.ErrNumericOverflow)
}

func TestPathAccessors(t *testing.T) {
	paths, err := gbm.SimulateSeed(base(), 5)
	require.NoError(t, err)

	path := paths.Path(3)
	for k, v := range path {
		assert.Equal(t, paths.At(k, 3), v)
	}
	assert.Equal(t, paths.Row(paths.Rows()-1), paths.Terminal())
	assert.Panics(t, func() { paths.At(paths.Rows(), 0) })
	assert.Panics(t, func() { paths.Path(-1) })
}
