package metrics_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/joinbench/perftest/metrics"
)

func Test_Metrics_Print(t *testing.T) {
	m := metrics.New()
	m.RowsGenerated.WithLabelValues("r").Add(12_345)
	m.RowsGenerated.WithLabelValues("s").Add(7)
	m.ArtifactsWritten.WithLabelValues("dataset").Inc()

	require.Equal(t, float64(12_345), testutil.ToFloat64(m.RowsGenerated.WithLabelValues("r")))

	out, err := m.Print()
	require.NoError(t, err)
	require.Equal(t, strings.Join([]string{
		"perftest_artifacts_written_total{kind=dataset} 1",
		"perftest_rows_generated_total{dataset=r} 12,345",
		"perftest_rows_generated_total{dataset=s} 7",
	}, "\n"), out)
}

func Test_Metrics_WriteTextfile(t *testing.T) {
	m := metrics.New()
	m.BestEffortFailures.WithLabelValues("symlink").Inc()

	filename := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, m.WriteTextfile(filename))

	bz, err := os.ReadFile(filename)
	require.NoError(t, err)
	require.Contains(t, string(bz), `perftest_best_effort_failures_total{op="symlink"} 1`)
}

func Test_Metrics_Independent(t *testing.T) {
	a, b := metrics.New(), metrics.New()
	a.MatchingKeys.WithLabelValues("r").Add(3)
	require.Equal(t, 0, testutil.CollectAndCount(b.MatchingKeys))
	require.Equal(t, 1, testutil.CollectAndCount(a.MatchingKeys))
}
