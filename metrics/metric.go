package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "perftest"

// Metrics counts what a generation run produced. Each run owns its registry so
// repeated runs in one process (tests) do not collide.
type Metrics struct {
	Registry *prometheus.Registry

	RowsGenerated      *prometheus.CounterVec
	MatchingKeys       *prometheus.CounterVec
	ArtifactsWritten   *prometheus.CounterVec
	BestEffortFailures *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RowsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_generated_total",
			Help:      "rows written per dataset",
		}, []string{"dataset"}),
		MatchingKeys: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matching_keys_total",
			Help:      "rows whose key lies in the matching range, per dataset",
		}, []string{"dataset"}),
		ArtifactsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_written_total",
			Help:      "files written to the output dir, by kind",
		}, []string{"kind"}),
		BestEffortFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "best_effort_failures_total",
			Help:      "ignored failures of optional steps, by operation",
		}, []string{"op"}),
	}
	m.Registry.MustRegister(m.RowsGenerated, m.MatchingKeys, m.ArtifactsWritten, m.BestEffortFailures)
	return m
}

// WriteTextfile writes the registry in the text exposition format.
func (m *Metrics) WriteTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, m.Registry)
}

// Print renders every counter on its own line, sorted, with humanized values.
func (m *Metrics) Print() (string, error) {
	families, err := m.Registry.Gather()
	if err != nil {
		return "", err
	}
	var lines []string
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			var labels []string
			for _, lp := range metric.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%s", lp.GetName(), lp.GetValue()))
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %s",
				mf.GetName(),
				strings.Join(labels, ","),
				humanize.Comma(int64(metric.GetCounter().GetValue()))))
		}
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n"), nil
}
