package perftest

import (
	"fmt"

	"github.com/tidwall/btree"

	"github.com/joinbench/perftest/util"
)

// Histogram counts occurrences of each a value, ordered by value.
type Histogram struct {
	counts btree.Map[int64, int]
}

func (h *Histogram) Add(v int64) {
	n, _ := h.counts.Get(v)
	h.counts.Set(v, n+1)
}

func (h *Histogram) Count(v int64) int {
	n, _ := h.counts.Get(v)
	return n
}

// Distinct is the number of different values seen.
func (h *Histogram) Distinct() int { return h.counts.Len() }

// Scan visits values in ascending order until fn returns false.
func (h *Histogram) Scan(fn func(v int64, n int) bool) {
	h.counts.Scan(fn)
}

// EquiJoinRows is the cardinality of an equi-join between two columns with these histograms.
func EquiJoinRows(left, right *Histogram) int64 {
	if left.Distinct() > right.Distinct() {
		left, right = right, left
	}
	var rows int64
	left.Scan(func(v int64, n int) bool {
		rows += int64(n) * int64(right.Count(v))
		return true
	})
	return rows
}

// DatasetSummary keeps the a histograms of a dataset once its rows are written.
type DatasetSummary struct {
	Params   DatasetParams
	Rows     int
	Matching int
	All      Histogram
	Filtered Histogram
}

func Summarize(d *Dataset) *DatasetSummary {
	s := &DatasetSummary{Params: d.Params, Rows: d.Len()}
	for i, a := range d.A {
		s.All.Add(a)
		if d.Params.IsMatching(d.Key[i]) {
			s.Matching++
			s.Filtered.Add(a)
		}
	}
	return s
}

type DatasetStats struct {
	Name              string `json:"name"`
	Rows              int    `json:"rows"`
	MatchingRows      int    `json:"matching_rows"`
	KeyMin            int64  `json:"key_min"`
	KeyMax            int64  `json:"key_max"`
	NotMatch          int64  `json:"not_match"`
	DistinctA         int    `json:"distinct_a"`
	DistinctMatchingA int    `json:"distinct_matching_a"`
}

// JoinStats is written to stats.json so the harness can check join results.
// JoinRows counts r ⋈ s on a; FilteredJoinRows counts the same join after
// both key columns are restricted to their matching range.
type JoinStats struct {
	Seed             int64        `json:"seed"`
	R                DatasetStats `json:"r"`
	S                DatasetStats `json:"s"`
	JoinRows         int64        `json:"join_rows"`
	FilteredJoinRows int64        `json:"filtered_join_rows"`
}

func (s *DatasetSummary) Stats() DatasetStats {
	return DatasetStats{
		Name:              s.Params.Name,
		Rows:              s.Rows,
		MatchingRows:      s.Matching,
		KeyMin:            s.Params.KeyMin,
		KeyMax:            s.Params.KeyMax,
		NotMatch:          s.Params.NotMatch(),
		DistinctA:         s.All.Distinct(),
		DistinctMatchingA: s.Filtered.Distinct(),
	}
}

func ComputeJoinStats(seed int64, r, s *DatasetSummary) JoinStats {
	return JoinStats{
		Seed:             seed,
		R:                r.Stats(),
		S:                s.Stats(),
		JoinRows:         EquiJoinRows(&r.All, &s.All),
		FilteredJoinRows: EquiJoinRows(&r.Filtered, &s.Filtered),
	}
}

func writeStats(outDir string, stats JoinStats) error {
	if err := util.WriteJSON(statsFile(outDir), stats); err != nil {
		return fmt.Errorf("error writing stats file: %w", err)
	}
	return nil
}

// ReadStats loads stats.json from a generated output dir.
func ReadStats(outDir string) (JoinStats, error) {
	var stats JoinStats
	if err := util.ReadJSON(statsFile(outDir), &stats); err != nil {
		return JoinStats{}, fmt.Errorf("error reading stats file: %w", err)
	}
	return stats, nil
}
