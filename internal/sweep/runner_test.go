package sweep

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gbmsynth/internal/gbm"
	"gbmsynth/internal/metrics"
)

type recordSink struct {
	ids   []int
	shape [][2]int
	fail  int
}

func (s *recordSink) Write(c Combination, p *gbm.Paths) error {
	if c.ID == s.fail {
		return errors.New("disk full")
	}
	s.ids = append(s.ids, c.ID)
	s.shape = append(s.shape, [2]int{p.Rows(), p.Cols()})
	return nil
}

func smallGrid() Grid {
	return Grid{
		S0:         100,
		T:          1,
		Simulation: []SimulationParams{{N: 5, M: 2}, {N: 7, M: 3}},
		GBM:        []GBMParams{{Mu: 0.1, Sigma: 0.2}, {Mu: 0.5, Sigma: 0}},
	}
}

func TestRunnerVisitsAllCombinations(t *testing.T) {
	sink := &recordSink{}
	m := metrics.New()
	r := &Runner{Sink: sink, BaseSeed: 1, Metrics: m}

	n, err := r.Run(context.Background(), smallGrid())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []int{1, 2, 3, 4}, sink.ids)
	assert.Equal(t, [][2]int{{6, 2}, {6, 2}, {8, 3}, {8, 3}}, sink.shape)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.Combinations))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.Paths))
}

func TestRunnerStopsOnSinkError(t *testing.T) {
	sink := &recordSink{fail: 3}
	r := &Runner{Sink: sink}

	n, err := r.Run(context.Background(), smallGrid())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "combination 3")
	assert.Equal(t, 2, n)
}

func TestRunnerHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &recordSink{}
	n, err := (&Runner{Sink: sink}).Run(ctx, smallGrid())
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
	assert.Empty(t, sink.ids)
}
