package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAndTextfile(t *testing.T) {
	m := New()
	m.Combinations.Inc()
	m.Paths.Add(1000)
	m.Samples.WithLabelValues("csv").Add(253)
	m.SimulationTime.Observe(0.01)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Combinations))
	assert.Equal(t, 1000.0, testutil.ToFloat64(m.Paths))
	assert.Equal(t, 253.0, testutil.ToFloat64(m.Samples.WithLabelValues("csv")))

	path := filepath.Join(t.TempDir(), "gbmsynth.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, "gbmsynth_paths_simulated_total 1000"))
	assert.True(t, strings.Contains(text, `gbmsynth_samples_written_total{format="csv"} 253`))
}
